// Package openai implements embeddings and generation against any
// OpenAI-compatible endpoint, such as Azure AI model inference or GitHub
// Models, using the official openai-go SDK.
package openai

import (
	"context"
	"net/http"
	"strings"

	"github.com/fwojciec/courserec"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	// DefaultBaseURL is the Azure AI model inference endpoint.
	DefaultBaseURL = "https://models.inference.ai.azure.com"

	// DefaultModel is the chat model used for recommendations.
	DefaultModel = "gpt-4o"

	// DefaultEmbeddingModel supports a dimensions parameter, so vectors can
	// match the 768 values used by the rest of the index.
	DefaultEmbeddingModel = "text-embedding-3-small"
)

// ClientOptions controls how the client is initialised.
type ClientOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client wraps the SDK services used by the embedder and generator.
type Client struct {
	chat       chatCompletionClient
	embeddings embeddingClient
}

type chatCompletionClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type embeddingClient interface {
	New(ctx context.Context, body openai.EmbeddingNewParams, opts ...option.RequestOption) (*openai.CreateEmbeddingResponse, error)
}

// NewClient constructs a Client. The API key is required; the base URL
// defaults to DefaultBaseURL.
func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, courserec.Errorf(courserec.EINVALID, "API token required")
	}

	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	requestOptions := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(baseURL),
	}
	if opts.HTTPClient != nil {
		requestOptions = append(requestOptions, option.WithHTTPClient(opts.HTTPClient))
	}

	apiClient := openai.NewClient(requestOptions...)

	return &Client{
		chat:       &apiClient.Chat.Completions,
		embeddings: &apiClient.Embeddings,
	}, nil
}
