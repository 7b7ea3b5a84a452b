package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/courserec"
)

var (
	_ courserec.Retriever   = (*LoggingRetriever)(nil)
	_ courserec.Recommender = (*LoggingRecommender)(nil)
	_ courserec.Generator   = (*LoggingGenerator)(nil)
)

// LoggingRetriever wraps a Retriever with logging.
type LoggingRetriever struct {
	next   courserec.Retriever
	logger *slog.Logger
}

// NewLoggingRetriever creates a new LoggingRetriever.
func NewLoggingRetriever(next courserec.Retriever, logger *slog.Logger) *LoggingRetriever {
	return &LoggingRetriever{next: next, logger: logger}
}

// Retrieve delegates to the wrapped retriever and logs the top result.
func (r *LoggingRetriever) Retrieve(ctx context.Context, question string, k int) (results []courserec.SearchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"question", question,
			"k", k,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		}
		if len(results) > 0 && results[0].Course != nil {
			attrs = append(attrs, "top", results[0].Course.Code, "score", results[0].Score)
		}
		r.logger.Info("retrieve", attrs...)
	}(time.Now())
	return r.next.Retrieve(ctx, question, k)
}

// LoggingRecommender wraps a Recommender with logging.
type LoggingRecommender struct {
	next   courserec.Recommender
	logger *slog.Logger
}

// NewLoggingRecommender creates a new LoggingRecommender.
func NewLoggingRecommender(next courserec.Recommender, logger *slog.Logger) *LoggingRecommender {
	return &LoggingRecommender{next: next, logger: logger}
}

// Recommend delegates to the wrapped recommender and logs the operation.
func (r *LoggingRecommender) Recommend(ctx context.Context, question string) (rec *courserec.Recommendation, err error) {
	defer func(begin time.Time) {
		var courses, answerLen int
		if rec != nil {
			courses, answerLen = len(rec.Courses), len(rec.Answer)
		}
		r.logger.Info("recommend",
			"question", question,
			"courses", courses,
			"answer_len", answerLen,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Recommend(ctx, question)
}

// LoggingGenerator wraps a Generator with debug logging.
type LoggingGenerator struct {
	next   courserec.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next courserec.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs prompt and answer sizes.
func (g *LoggingGenerator) Generate(ctx context.Context, prompt string) (answer string, err error) {
	defer func(begin time.Time) {
		g.logger.Debug("generate",
			"prompt_len", len(prompt),
			"answer_len", len(answer),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, prompt)
}
