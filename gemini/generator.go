package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/courserec"
	"google.golang.org/genai"
)

// Ensure Generator implements courserec.Generator at compile time.
var _ courserec.Generator = (*Generator)(nil)

// Generator answers recommendation prompts with a Gemini model.
type Generator struct {
	models Models
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(models Models, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{models: models, model: model}
}

// Generate returns the model's answer to prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", courserec.Errorf(courserec.EINVALID, "prompt required")
	}

	result, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", courserec.Errorf(courserec.EINTERNAL, "gemini returned nil result")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", courserec.Errorf(courserec.EINTERNAL, "gemini returned an empty answer")
	}
	return text, nil
}

// BuildConfig returns the GenerateContentConfig for recommendation calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(courserec.SystemInstruction, genai.RoleUser),
		Temperature:       &temp,
	}
}
