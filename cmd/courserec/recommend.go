package main

import (
	"fmt"

	"github.com/fwojciec/courserec"
)

// Run executes the recommend command.
func (c *RecommendCmd) Run(deps *Dependencies) error {
	rec, err := deps.Recommender.Recommend(deps.Ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", courserec.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, rec.Answer)
	if c.Sources && len(rec.Courses) > 0 {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Sources:")
		fmt.Fprintln(deps.Stdout, courserec.FormatResults(rec.Courses))
	}
	return nil
}
