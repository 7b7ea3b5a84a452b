package mock

import (
	"context"

	"github.com/fwojciec/courserec"
)

var _ courserec.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of courserec.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, texts ...string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, texts ...string) (int, error) {
	return c.CountTokensFn(ctx, texts...)
}
