package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/courserec"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
)

// DefaultTemperature matches the Gemini generator.
const DefaultTemperature = 0.4

// Ensure Generator implements courserec.Generator at compile time.
var _ courserec.Generator = (*Generator)(nil)

// Generator answers recommendation prompts with a chat completion model.
type Generator struct {
	client      *Client
	model       string
	temperature float64
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *Client, model string) *Generator {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model, temperature: DefaultTemperature}
}

// Generate returns the model's answer to prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", courserec.Errorf(courserec.EINVALID, "prompt required")
	}

	completion, err := g.client.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(courserec.SystemInstruction),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(g.temperature),
	})
	if err != nil {
		return "", err
	}
	if completion == nil || len(completion.Choices) == 0 {
		return "", courserec.Errorf(courserec.EINTERNAL, "completion returned no choices")
	}

	choice := completion.Choices[0]
	if strings.EqualFold(strings.TrimSpace(choice.FinishReason), "content_filter") {
		return "", courserec.Errorf(courserec.EINVALID, "question blocked by the content filter")
	}
	if refusal := strings.TrimSpace(choice.Message.Refusal); refusal != "" {
		return "", courserec.Errorf(courserec.EINVALID, "model refused to answer: %s", refusal)
	}

	answer := strings.TrimSpace(choice.Message.Content)
	if answer == "" {
		return "", courserec.Errorf(courserec.EINTERNAL, "completion returned an empty answer")
	}
	return answer, nil
}
