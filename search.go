package courserec

import "context"

// DefaultTopK is the number of courses retrieved per question.
const DefaultTopK = 3

// SearchService provides nearest-neighbour search over course embeddings.
type SearchService interface {
	// Search returns courses ordered by cosine similarity to the embedding,
	// highest first.
	Search(ctx context.Context, embedding []float32, opts SearchOptions) ([]SearchResult, error)
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Restrict results to one catalog year. Zero searches every year.
	Year int `json:"year,omitempty"`

	// Maximum number of results to return
	Limit int `json:"limit,omitempty"`

	// Minimum similarity score (-1 to 1)
	MinScore float32 `json:"minScore,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	Course *Course `json:"course"`
	Score  float32 `json:"score"`
}

// Retriever finds the courses most relevant to a natural language question.
type Retriever interface {
	// Retrieve returns up to k courses. A non-positive k uses the
	// implementation's default.
	// Returns EINVALID if the question is blank.
	Retrieve(ctx context.Context, question string, k int) ([]SearchResult, error)
}
