package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/courserec"
)

var (
	_ courserec.Retriever   = (*Retriever)(nil)
	_ courserec.Recommender = (*Recommender)(nil)
)

// Retriever records metrics for a wrapped Retriever.
type Retriever struct {
	next    courserec.Retriever
	metrics *Metrics
}

// NewRetriever creates a new instrumented Retriever.
func NewRetriever(next courserec.Retriever, metrics *Metrics) *Retriever {
	return &Retriever{next: next, metrics: metrics}
}

// Retrieve delegates to the wrapped retriever.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]courserec.SearchResult, error) {
	begin := time.Now()
	results, err := r.next.Retrieve(ctx, question, k)
	r.metrics.observe("retrieve", begin, err)
	if err == nil {
		r.metrics.retrieved.Observe(float64(len(results)))
	}
	return results, err
}

// Recommender records metrics for a wrapped Recommender.
type Recommender struct {
	next    courserec.Recommender
	metrics *Metrics
}

// NewRecommender creates a new instrumented Recommender.
func NewRecommender(next courserec.Recommender, metrics *Metrics) *Recommender {
	return &Recommender{next: next, metrics: metrics}
}

// Recommend delegates to the wrapped recommender.
func (r *Recommender) Recommend(ctx context.Context, question string) (*courserec.Recommendation, error) {
	begin := time.Now()
	rec, err := r.next.Recommend(ctx, question)
	r.metrics.observe("recommend", begin, err)
	return rec, err
}
