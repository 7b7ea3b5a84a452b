package gemini

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/courserec"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ courserec.TokenCounter = (*TokenCounter)(nil)

// TokenCounter sizes embedding batches locally with the Gemini tokenizer,
// so an index run can report how much course text it embedded without
// spending API calls on it.
type TokenCounter struct {
	mu  sync.Mutex
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the tokenizer of model. Only generation models
// ship a local tokenizer, so embedding batches are sized with DefaultModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, courserec.Errorf(courserec.ENOTIMPLEMENTED, "no local tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens totals the tokens of texts. Blank texts are not sent to the
// embedder and count as zero.
func (tc *TokenCounter) CountTokens(ctx context.Context, texts ...string) (int, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}
	if len(contents) == 0 {
		return 0, nil
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()
	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
