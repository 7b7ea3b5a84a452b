package gemini_test

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// fakeModels records requests and replays canned responses.
type fakeModels struct {
	mu sync.Mutex

	generateFn func(contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	embedFn    func(contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)

	models      []string
	embedCalls  int
	lastGenCfg  *genai.GenerateContentConfig
	lastEmbCfg  *genai.EmbedContentConfig
	lastContent []*genai.Content
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	f.models = append(f.models, model)
	f.lastGenCfg = config
	f.lastContent = contents
	f.mu.Unlock()
	return f.generateFn(contents, config)
}

func (f *fakeModels) EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	f.models = append(f.models, model)
	f.embedCalls++
	f.lastEmbCfg = config
	f.lastContent = contents
	f.mu.Unlock()
	return f.embedFn(contents, config)
}

// textResponse builds a single-candidate response carrying text.
func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

// echoEmbeddings returns one embedding per content whose first value is
// the length of the content text.
func echoEmbeddings(contents []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	resp := &genai.EmbedContentResponse{}
	for _, c := range contents {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{
			Values: []float32{float32(len(c.Parts[0].Text)), 1},
		})
	}
	return resp, nil
}
