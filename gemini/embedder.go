package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/courserec"
	"google.golang.org/genai"
)

// maxBatch is the number of texts sent in one embedding request.
const maxBatch = 100

// Ensure Embedder implements courserec.Embedder at compile time.
var _ courserec.Embedder = (*Embedder)(nil)

// Embedder embeds course text and queries with a Gemini embedding model.
// Documents and queries use the matching retrieval task types.
type Embedder struct {
	models     Models
	model      string
	dimensions int32
}

// NewEmbedder creates a new Embedder. An empty model selects
// DefaultEmbeddingModel and dimensions <= 0 selects
// courserec.DefaultEmbeddingDimensions.
func NewEmbedder(models Models, model string, dimensions int) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	if dimensions <= 0 {
		dimensions = courserec.DefaultEmbeddingDimensions
	}
	return &Embedder{models: models, model: model, dimensions: int32(dimensions)}
}

// EmbedDocuments embeds texts for storage, in order.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, courserec.Errorf(courserec.EINVALID, "no texts to embed")
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, courserec.Errorf(courserec.EINVALID, "text %d is empty", i)
		}
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		end := min(start+maxBatch, len(texts))
		batch, err := e.embed(ctx, texts[start:end], "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// EmbedQuery embeds a search query.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, courserec.Errorf(courserec.EINVALID, "query required")
	}

	vectors, err := e.embed(ctx, []string{text}, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *Embedder) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	dims := e.dimensions
	result, err := e.models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, courserec.Errorf(courserec.EINTERNAL, "gemini returned %d embeddings for %d texts", got, len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, courserec.Errorf(courserec.EINTERNAL, "gemini returned an empty embedding")
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}
