package courserec

import "context"

// TokenCounter counts the tokens a model sees for a batch of texts.
type TokenCounter interface {
	// CountTokens totals the tokens of texts, each counted as a separate
	// input the way an embedding batch sends them.
	CountTokens(ctx context.Context, texts ...string) (int, error)
}
