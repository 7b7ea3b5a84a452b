package openai

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/fwojciec/courserec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatCompletionBody = `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o",
	"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Take CH 221."}}]}`

// recordingTransport answers every request with a canned chat completion
// and remembers the URL it was sent to.
type recordingTransport struct {
	url string
}

func (rt *recordingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	rt.url = r.URL.String()
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(chatCompletionBody)),
		Request:    r,
	}, nil
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("requires an API key", func(t *testing.T) {
		t.Parallel()

		_, err := NewClient(ClientOptions{})

		require.Error(t, err)
		assert.Equal(t, courserec.EINVALID, courserec.ErrorCode(err))
	})

	t.Run("sends requests to the Azure inference endpoint by default", func(t *testing.T) {
		t.Parallel()

		rt := &recordingTransport{}
		client, err := NewClient(ClientOptions{APIKey: "token", HTTPClient: &http.Client{Transport: rt}})
		require.NoError(t, err)

		answer, err := NewGenerator(client, "").Generate(context.Background(), "Which chemistry course?")

		require.NoError(t, err)
		assert.Equal(t, "Take CH 221.", answer)
		assert.Equal(t, DefaultBaseURL+"/chat/completions", rt.url)
	})

	t.Run("honors a custom base URL", func(t *testing.T) {
		t.Parallel()

		rt := &recordingTransport{}
		client, err := NewClient(ClientOptions{
			APIKey:     "token",
			BaseURL:    " https://llm.example.edu/v1 ",
			HTTPClient: &http.Client{Transport: rt},
		})
		require.NoError(t, err)

		_, err = NewGenerator(client, "").Generate(context.Background(), "Which chemistry course?")

		require.NoError(t, err)
		assert.Equal(t, "https://llm.example.edu/v1/chat/completions", rt.url)
	})
}
