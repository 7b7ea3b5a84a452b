package openai

import (
	"context"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

type fakeChatService struct {
	response   *openai.ChatCompletion
	err        error
	lastParams openai.ChatCompletionNewParams
}

func (f *fakeChatService) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.lastParams = body
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type fakeEmbeddingService struct {
	response   *openai.CreateEmbeddingResponse
	err        error
	calls      int
	lastParams openai.EmbeddingNewParams
}

func (f *fakeEmbeddingService) New(ctx context.Context, body openai.EmbeddingNewParams, opts ...option.RequestOption) (*openai.CreateEmbeddingResponse, error) {
	f.calls++
	f.lastParams = body
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func chatResponse(choice openai.ChatCompletionChoice) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		ID:      "chat-1",
		Model:   "test-model",
		Choices: []openai.ChatCompletionChoice{choice},
	}
}
