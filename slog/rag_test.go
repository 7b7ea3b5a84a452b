package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/courserec"
	"github.com/fwojciec/courserec/mock"
	ccslog "github.com/fwojciec/courserec/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRetriever_Retrieve(t *testing.T) {
	t.Parallel()

	t.Run("logs the top result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Retriever{
			RetrieveFn: func(ctx context.Context, question string, k int) ([]courserec.SearchResult, error) {
				return []courserec.SearchResult{{Course: &courserec.Course{Code: "CH115"}, Score: 0.5}}, nil
			},
		}

		results, err := ccslog.NewLoggingRetriever(inner, debugLogger(&buf)).Retrieve(context.Background(), "chemistry", 3)

		require.NoError(t, err)
		assert.Len(t, results, 1)
		output := buf.String()
		assert.Contains(t, output, "msg=retrieve")
		assert.Contains(t, output, "question=chemistry")
		assert.Contains(t, output, "k=3")
		assert.Contains(t, output, "results=1")
		assert.Contains(t, output, "top=CH115")
	})

	t.Run("logs errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Retriever{
			RetrieveFn: func(ctx context.Context, question string, k int) ([]courserec.SearchResult, error) {
				return nil, errors.New("store closed")
			},
		}

		_, err := ccslog.NewLoggingRetriever(inner, debugLogger(&buf)).Retrieve(context.Background(), "q", 3)

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="store closed"`)
		assert.NotContains(t, buf.String(), "top=")
	})
}

func TestLoggingRecommender_Recommend(t *testing.T) {
	t.Parallel()

	t.Run("logs course count and answer length", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Recommender{
			RecommendFn: func(ctx context.Context, question string) (*courserec.Recommendation, error) {
				return &courserec.Recommendation{
					Question: question,
					Answer:   "Take CH 115.",
					Courses:  make([]courserec.SearchResult, 3),
				}, nil
			},
		}

		rec, err := ccslog.NewLoggingRecommender(inner, debugLogger(&buf)).Recommend(context.Background(), "chemistry")

		require.NoError(t, err)
		assert.Equal(t, "Take CH 115.", rec.Answer)
		output := buf.String()
		assert.Contains(t, output, "msg=recommend")
		assert.Contains(t, output, "courses=3")
		assert.Contains(t, output, "answer_len=12")
	})

	t.Run("logs errors without a recommendation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Recommender{
			RecommendFn: func(ctx context.Context, question string) (*courserec.Recommendation, error) {
				return nil, errors.New("no courses")
			},
		}

		_, err := ccslog.NewLoggingRecommender(inner, debugLogger(&buf)).Recommend(context.Background(), "q")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "courses=0")
		assert.Contains(t, buf.String(), `err="no courses"`)
	})
}

func TestLoggingGenerator_Generate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.Generator{
		GenerateFn: func(ctx context.Context, prompt string) (string, error) {
			return "answer", nil
		},
	}

	answer, err := ccslog.NewLoggingGenerator(inner, debugLogger(&buf)).Generate(context.Background(), "prompt text")

	require.NoError(t, err)
	assert.Equal(t, "answer", answer)
	output := buf.String()
	assert.Contains(t, output, "msg=generate")
	assert.Contains(t, output, "prompt_len=11")
	assert.Contains(t, output, "answer_len=6")
}
