package courserec

import "context"

// DefaultEmbeddingDimensions matches the vector width of the course tables.
const DefaultEmbeddingDimensions = 768

// Embedder turns text into dense vectors.
type Embedder interface {
	// EmbedDocuments embeds course texts for storage.
	// The result has one vector per input, in input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a user question for retrieval.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
