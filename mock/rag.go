package mock

import (
	"context"

	"github.com/fwojciec/courserec"
)

var (
	_ courserec.Embedder    = (*Embedder)(nil)
	_ courserec.Generator   = (*Generator)(nil)
	_ courserec.Retriever   = (*Retriever)(nil)
	_ courserec.Recommender = (*Recommender)(nil)
	_ courserec.Judge       = (*Judge)(nil)
)

// Embedder is a mock implementation of courserec.Embedder.
type Embedder struct {
	EmbedDocumentsFn func(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQueryFn     func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedDocumentsFn(ctx, texts)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQueryFn(ctx, text)
}

// Generator is a mock implementation of courserec.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.GenerateFn(ctx, prompt)
}

// Retriever is a mock implementation of courserec.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, question string, k int) ([]courserec.SearchResult, error)
}

func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]courserec.SearchResult, error) {
	return r.RetrieveFn(ctx, question, k)
}

// Recommender is a mock implementation of courserec.Recommender.
type Recommender struct {
	RecommendFn func(ctx context.Context, question string) (*courserec.Recommendation, error)
}

func (r *Recommender) Recommend(ctx context.Context, question string) (*courserec.Recommendation, error) {
	return r.RecommendFn(ctx, question)
}

// Judge is a mock implementation of courserec.Judge.
type Judge struct {
	ContextRelevanceFn func(ctx context.Context, question string, contexts []string) (float64, error)
	FaithfulnessFn     func(ctx context.Context, question string, contexts []string, answer string) (float64, error)
}

func (j *Judge) ContextRelevance(ctx context.Context, question string, contexts []string) (float64, error) {
	return j.ContextRelevanceFn(ctx, question, contexts)
}

func (j *Judge) Faithfulness(ctx context.Context, question string, contexts []string, answer string) (float64, error) {
	return j.FaithfulnessFn(ctx, question, contexts, answer)
}
