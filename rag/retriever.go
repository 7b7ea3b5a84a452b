package rag

import (
	"context"
	"strings"

	"github.com/fwojciec/courserec"
)

var _ courserec.Retriever = (*Retriever)(nil)

// Retriever finds the courses of one catalog year closest to a question.
type Retriever struct {
	Embedder courserec.Embedder
	Search   courserec.SearchService

	Year     int
	TopK     int
	MinScore float32
}

// Retrieve embeds question and returns the k most similar courses. A k of
// zero or less uses TopK, then courserec.DefaultTopK.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]courserec.SearchResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, courserec.Errorf(courserec.EINVALID, "question required")
	}

	if k <= 0 {
		k = r.TopK
	}
	if k <= 0 {
		k = courserec.DefaultTopK
	}

	embedding, err := r.Embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, err
	}

	return r.Search.Search(ctx, embedding, courserec.SearchOptions{
		Year:     r.Year,
		Limit:    k,
		MinScore: r.MinScore,
	})
}
