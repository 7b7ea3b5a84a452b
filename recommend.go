package courserec

import "context"

// Recommendation is a generated answer and the courses it was grounded on.
type Recommendation struct {
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Courses  []SearchResult `json:"courses"`
}

// Recommender answers course questions with retrieval-augmented generation.
type Recommender interface {
	// Recommend answers the question using the most relevant courses.
	// Returns EINVALID if the question is blank and ENOTFOUND if nothing
	// has been indexed.
	Recommend(ctx context.Context, question string) (*Recommendation, error)
}

// Generator sends a prompt to a language model and returns its reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
