package gemini_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/courserec"
	"github.com/fwojciec/courserec/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("returns trimmed model text", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{generateFn: func(contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return textResponse("  Take CH 221.\n"), nil
		}}

		answer, err := gemini.NewGenerator(models, "").Generate(context.Background(), "Which chemistry course?")

		require.NoError(t, err)
		assert.Equal(t, "Take CH 221.", answer)
		assert.Equal(t, []string{gemini.DefaultModel}, models.models)
		require.Len(t, models.lastContent, 1)
		assert.Equal(t, "Which chemistry course?", models.lastContent[0].Parts[0].Text)
		assert.NotNil(t, models.lastGenCfg.SystemInstruction)
	})

	t.Run("rejects blank prompt", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewGenerator(&fakeModels{}, "").Generate(context.Background(), "")

		require.Error(t, err)
		assert.Equal(t, courserec.EINVALID, courserec.ErrorCode(err))
	})

	t.Run("returns EINTERNAL for empty answer", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{generateFn: func([]*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{}, nil
		}}

		_, err := gemini.NewGenerator(models, "").Generate(context.Background(), "q")

		require.Error(t, err)
		assert.Equal(t, courserec.EINTERNAL, courserec.ErrorCode(err))
	})

	t.Run("propagates API errors", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{generateFn: func([]*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return nil, errors.New("unavailable")
		}}

		_, err := gemini.NewGenerator(models, "custom").Generate(context.Background(), "q")

		require.EqualError(t, err, "unavailable")
		assert.Equal(t, []string{"custom"}, models.models)
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("sets system instruction", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig()

		require.NotNil(t, config.SystemInstruction)
		require.Len(t, config.SystemInstruction.Parts, 1)
		assert.Equal(t, courserec.SystemInstruction, config.SystemInstruction.Parts[0].Text)
	})

	t.Run("sets temperature", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig()

		require.NotNil(t, config.Temperature)
		assert.InDelta(t, 0.4, *config.Temperature, 0.001)
	})
}
