package main

import (
	"fmt"

	"github.com/fwojciec/courserec"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	results, err := deps.Retriever.Retrieve(deps.Ctx, c.Question, c.K)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", courserec.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No courses found. Use 'courserec index' to index the catalog.")
		return nil
	}

	fmt.Fprintln(deps.Stdout, courserec.FormatResults(results))
	return nil
}
