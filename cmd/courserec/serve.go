package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/courserec"
	cchttp "github.com/fwojciec/courserec/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is
// cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv, err := cchttp.NewServer(cchttp.Options{
		Recommender: deps.Recommender,
		Retriever:   deps.Retriever,
		Courses:     deps.Courses,
		Year:        deps.Year,
		Logger:      deps.Logger,
		Gatherer:    deps.Gatherer,
		RateLimit: cchttp.RateLimitSettings{
			RequestsPerSecond: c.RateLimit,
			Burst:             c.Burst,
		},
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", courserec.ErrorMessage(err))
		return err
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, c.Addr)
	})
	if c.Index && deps.Indexer != nil {
		g.Go(func() error {
			c.indexInBackground(ctx, deps)
			return nil
		})
	}
	return g.Wait()
}

// indexInBackground runs one indexing job. Failures are logged and the
// server keeps serving whatever is already indexed.
func (c *ServeCmd) indexInBackground(ctx context.Context, deps *Dependencies) {
	if c.Recreate {
		if err := deps.Courses.DeleteCourses(ctx, deps.Year); err != nil {
			deps.Logger.Error("background index failed", "year", deps.Year, "error", err)
			return
		}
	}

	deps.Logger.Info("background index started", "year", deps.Year)
	result, err := deps.Indexer.Index(ctx, deps.Source, deps.Year)
	if result != nil && deps.Metrics != nil {
		deps.Metrics.RecordIndex(result.Indexed, result.Skipped, result.Failed)
	}
	if err != nil {
		deps.Logger.Error("background index failed", "year", deps.Year, "error", err)
		return
	}
	deps.Logger.Info("background index finished",
		"year", deps.Year,
		"indexed", result.Indexed,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
}
