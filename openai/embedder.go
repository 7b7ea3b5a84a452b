package openai

import (
	"context"
	"sort"
	"strings"

	"github.com/fwojciec/courserec"
	"github.com/openai/openai-go/v2"
)

// Ensure Embedder implements courserec.Embedder at compile time.
var _ courserec.Embedder = (*Embedder)(nil)

// Embedder embeds texts with an OpenAI-compatible embeddings endpoint.
type Embedder struct {
	client     *Client
	model      string
	dimensions int
}

// NewEmbedder creates a new Embedder. An empty model selects
// DefaultEmbeddingModel; dimensions <= 0 selects
// courserec.DefaultEmbeddingDimensions.
func NewEmbedder(client *Client, model string, dimensions int) *Embedder {
	if strings.TrimSpace(model) == "" {
		model = DefaultEmbeddingModel
	}
	if dimensions <= 0 {
		dimensions = courserec.DefaultEmbeddingDimensions
	}
	return &Embedder{client: client, model: model, dimensions: dimensions}
}

// EmbedDocuments embeds texts in a single request and returns the vectors
// in input order.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, courserec.Errorf(courserec.EINVALID, "no texts to embed")
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, courserec.Errorf(courserec.EINVALID, "text %d is empty", i)
		}
	}
	return e.embed(ctx, texts)
}

// EmbedQuery embeds a search query.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, courserec.Errorf(courserec.EINVALID, "query required")
	}

	vectors, err := e.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Model:      openai.EmbeddingModel(e.model),
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Dimensions: openai.Int(int64(e.dimensions)),
	}

	response, err := e.client.embeddings.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if response == nil || len(response.Data) != len(texts) {
		got := 0
		if response != nil {
			got = len(response.Data)
		}
		return nil, courserec.Errorf(courserec.EINTERNAL, "embedding response contained %d vectors for %d texts", got, len(texts))
	}

	data := append([]openai.Embedding(nil), response.Data...)
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	vectors := make([][]float32, len(data))
	for i, d := range data {
		if len(d.Embedding) == 0 {
			return nil, courserec.Errorf(courserec.EINTERNAL, "embedding vector was empty")
		}
		converted := make([]float32, len(d.Embedding))
		for j, value := range d.Embedding {
			converted[j] = float32(value)
		}
		vectors[i] = converted
	}
	return vectors, nil
}
