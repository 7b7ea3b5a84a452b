package courserec

import "context"

// EvalCase is one labelled question for evaluating retrieval and answers.
type EvalCase struct {
	Question string `json:"question" yaml:"question"`

	// Relevant lists the course codes a good retrieval should return.
	Relevant []string `json:"relevant" yaml:"relevant"`

	// Reference is an optional ground-truth answer for answer similarity.
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// Judge scores generated answers with a language model.
type Judge interface {
	// ContextRelevance returns 1 if any retrieved context contains
	// statements relevant to the question, 0 otherwise.
	ContextRelevance(ctx context.Context, question string, contexts []string) (float64, error)

	// Faithfulness returns the fraction of statements in the answer that
	// the contexts support.
	Faithfulness(ctx context.Context, question string, contexts []string, answer string) (float64, error)
}
