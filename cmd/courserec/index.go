package main

import (
	"fmt"

	"github.com/fwojciec/courserec"
	"github.com/fwojciec/courserec/crawl"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	if c.Recreate {
		if err := deps.Courses.DeleteCourses(deps.Ctx, deps.Year); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", courserec.ErrorMessage(err))
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Indexing %s courses\n", courserec.TermLabel(deps.Year))

	result, err := deps.Indexer.Index(deps.Ctx, deps.Source, deps.Year)
	if result != nil && deps.Metrics != nil {
		deps.Metrics.RecordIndex(result.Indexed, result.Skipped, result.Failed)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", courserec.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Indexed %d courses (%d skipped, %d failed)", result.Indexed, result.Skipped, result.Failed)
	if result.Scrape != nil {
		fmt.Fprintf(deps.Stdout, " from %d listing pages", result.Scrape.Pages)
		if result.Scrape.Duplicates > 0 {
			fmt.Fprintf(deps.Stdout, ", %d duplicate links", result.Scrape.Duplicates)
		}
	}
	if result.Tokens > 0 {
		fmt.Fprintf(deps.Stdout, ", %s", crawl.FormatTokens(result.Tokens))
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}
