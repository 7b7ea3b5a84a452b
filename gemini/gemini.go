// Package gemini implements embeddings, generation, LLM judging and token
// counting on top of the Google Gen AI SDK.
package gemini

import (
	"context"

	"google.golang.org/genai"
)

const (
	// DefaultModel is the generation model used for recommendations.
	DefaultModel = "gemini-2.5-flash"

	// DefaultEmbeddingModel is the embedding model. It supports reduced
	// output dimensionality, which keeps vectors at 768 values.
	DefaultEmbeddingModel = "gemini-embedding-001"
)

// Models is the subset of *genai.Models used by this package. Pass
// client.Models in production.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

var _ Models = (*genai.Models)(nil)

// NewClient creates a Gemini API client for apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}
