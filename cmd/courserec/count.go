package main

import (
	"fmt"

	"github.com/fwojciec/courserec"
)

// Run executes the count command.
func (c *CountCmd) Run(deps *Dependencies) error {
	year := deps.Year
	if c.All {
		year = 0
	}

	n, err := deps.Courses.CountCourses(deps.Ctx, year)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", courserec.ErrorMessage(err))
		return err
	}

	if c.All {
		fmt.Fprintf(deps.Stdout, "%d courses indexed\n", n)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "%d courses indexed for %s\n", n, courserec.TermLabel(year))
	return nil
}
