// Package rag wires retrieval-augmented generation together: indexing
// scraped courses into a vector store, retrieving the most similar courses
// for a question, and asking a language model for a recommendation.
package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/courserec"
)

// DefaultBatchSize is the number of courses embedded per request.
const DefaultBatchSize = 10

// IndexResult holds the outcome of an index run.
type IndexResult struct {
	Scrape  *courserec.ScrapeResult
	Indexed int
	Skipped int
	Failed  int
	Tokens  int
}

// Indexer embeds courses from a source and writes them to a store.
type Indexer struct {
	Courses  courserec.CourseService
	Embedder courserec.Embedder

	// TokenCounter, if set, totals the tokens of embedded text.
	TokenCounter courserec.TokenCounter

	BatchSize int
	Policy    courserec.DuplicatePolicy
	Logger    *slog.Logger
}

// Index scrapes year from source and indexes every course it yields.
// Courses are embedded in batches; a batch whose embedding request fails
// aborts the run.
func (ix *Indexer) Index(ctx context.Context, source courserec.CourseSource, year int) (*IndexResult, error) {
	batchSize := ix.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	policy := ix.Policy
	if policy == "" {
		policy = courserec.DuplicateSkip
	}

	result := &IndexResult{}
	batch := make([]*courserec.Course, 0, batchSize)
	batches := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		batches++
		if err := ix.indexBatch(ctx, batch, policy, result); err != nil {
			return err
		}
		ix.logger().Info("indexed batch",
			"batch", batches,
			"size", len(batch),
			"indexed", result.Indexed,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
		batch = batch[:0]
		return nil
	}

	scrape, err := source.Scrape(ctx, year, func(c *courserec.Course) error {
		batch = append(batch, c)
		if len(batch) < batchSize {
			return nil
		}
		return flush()
	})
	result.Scrape = scrape
	if err != nil {
		return result, err
	}
	if err := flush(); err != nil {
		return result, err
	}

	return result, nil
}

// indexBatch resolves duplicates, embeds what remains and writes it.
func (ix *Indexer) indexBatch(ctx context.Context, batch []*courserec.Course, policy courserec.DuplicatePolicy, result *IndexResult) error {
	var pending []*courserec.Course
	for _, course := range batch {
		existing, err := ix.Courses.FindCourseByCode(ctx, course.Year, course.Code)
		switch {
		case courserec.ErrorCode(err) == courserec.ENOTFOUND:
			pending = append(pending, course)
			continue
		case err != nil:
			return fmt.Errorf("lookup %s: %w", course.Code, err)
		}

		switch policy {
		case courserec.DuplicateFail:
			return courserec.Errorf(courserec.ECONFLICT, "course %s already indexed for %d", course.Code, course.Year)
		case courserec.DuplicateOverwrite:
			if course.ContentHash != "" && existing.ContentHash == course.ContentHash {
				result.Skipped++
				continue
			}
			pending = append(pending, course)
		default:
			result.Skipped++
		}
	}
	if len(pending) == 0 {
		return nil
	}

	texts := make([]string, len(pending))
	for i, course := range pending {
		texts[i] = course.EmbeddingText()
	}

	vectors, err := ix.Embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(pending) {
		return courserec.Errorf(courserec.EINTERNAL, "embedder returned %d vectors for %d courses", len(vectors), len(pending))
	}

	if ix.TokenCounter != nil {
		n, err := ix.TokenCounter.CountTokens(ctx, texts...)
		if err != nil {
			ix.logger().Warn("count tokens", "error", err)
		}
		result.Tokens += n
	}

	for i, course := range pending {
		course.Embedding = vectors[i]
		written, err := ix.Courses.WriteCourse(ctx, course, policy)
		if err != nil {
			if courserec.ErrorCode(err) == courserec.EINVALID {
				ix.logger().Warn("skipping invalid course", "code", course.Code, "error", courserec.ErrorMessage(err))
				result.Failed++
				continue
			}
			return err
		}
		if written {
			result.Indexed++
		} else {
			result.Skipped++
		}
	}
	return nil
}

func (ix *Indexer) logger() *slog.Logger {
	if ix.Logger != nil {
		return ix.Logger
	}
	return slog.New(slog.DiscardHandler)
}
