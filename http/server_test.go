package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/courserec"
	cchttp "github.com/fwojciec/courserec/http"
	"github.com/fwojciec/courserec/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chemistry() []courserec.SearchResult {
	return []courserec.SearchResult{{
		Course: &courserec.Course{
			Code:        "CH 115",
			Name:        "General Chemistry I",
			Description: "Atoms and molecules.",
			Link:        "https://catalog.example.edu/ch-115",
			Credits:     "3",
		},
		Score: 0.82,
	}}
}

func newOptions() cchttp.Options {
	return cchttp.Options{
		Recommender: &mock.Recommender{
			RecommendFn: func(ctx context.Context, question string) (*courserec.Recommendation, error) {
				return &courserec.Recommendation{Question: question, Answer: "Take CH 115.", Courses: chemistry()}, nil
			},
		},
		Retriever: &mock.Retriever{
			RetrieveFn: func(ctx context.Context, question string, k int) ([]courserec.SearchResult, error) {
				return chemistry(), nil
			},
		},
		Courses: &mock.CourseService{
			CountCoursesFn: func(ctx context.Context, year int) (int, error) {
				return 42, nil
			},
		},
		Year: 2024,
	}
}

func newServer(t *testing.T, opts cchttp.Options) *cchttp.Server {
	t.Helper()
	srv, err := cchttp.NewServer(opts)
	require.NoError(t, err)
	return srv
}

func do(srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestServer_Recommend(t *testing.T) {
	t.Parallel()

	t.Run("returns the recommendation and courses", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, newOptions())

		rec := do(srv, http.MethodPost, "/recommend", `{"question":"I like chemistry"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body struct {
			Question       string                `json:"question"`
			Recommendation string                `json:"recommendation"`
			Courses        []cchttp.CourseResult `json:"courses"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "I like chemistry", body.Question)
		assert.Equal(t, "Take CH 115.", body.Recommendation)
		require.Len(t, body.Courses, 1)
		assert.Equal(t, cchttp.CourseResult{
			Code:        "CH 115",
			Name:        "General Chemistry I",
			Description: "Atoms and molecules.",
			Link:        "https://catalog.example.edu/ch-115",
			Credits:     "3",
			Score:       0.82,
		}, body.Courses[0])
		assert.NotEmpty(t, rec.Header().Get(cchttp.RequestIDHeader))
	})

	t.Run("maps application errors to status codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			err  error
			want int
		}{
			{courserec.Errorf(courserec.EINVALID, "question required"), http.StatusBadRequest},
			{courserec.Errorf(courserec.ENOTFOUND, "no courses indexed"), http.StatusNotFound},
			{courserec.Errorf(courserec.EUNAVAILABLE, "model overloaded"), http.StatusServiceUnavailable},
			{errors.New("boom"), http.StatusInternalServerError},
		}

		for _, tt := range tests {
			opts := newOptions()
			opts.Recommender = &mock.Recommender{
				RecommendFn: func(ctx context.Context, question string) (*courserec.Recommendation, error) {
					return nil, tt.err
				},
			}
			srv := newServer(t, opts)

			rec := do(srv, http.MethodPost, "/recommend", `{"question":""}`)

			assert.Equal(t, tt.want, rec.Code, tt.err.Error())
		}
	})

	t.Run("hides internal error details", func(t *testing.T) {
		t.Parallel()

		opts := newOptions()
		opts.Recommender = &mock.Recommender{
			RecommendFn: func(ctx context.Context, question string) (*courserec.Recommendation, error) {
				return nil, errors.New("pq: password authentication failed")
			},
		}
		srv := newServer(t, opts)

		rec := do(srv, http.MethodPost, "/recommend", `{"question":"q"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
	})
}

func TestServer_Search(t *testing.T) {
	t.Parallel()

	t.Run("passes the query and k to the retriever", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		var gotK int
		opts := newOptions()
		opts.Retriever = &mock.Retriever{
			RetrieveFn: func(ctx context.Context, question string, k int) ([]courserec.SearchResult, error) {
				gotQuery, gotK = question, k
				return chemistry(), nil
			},
		}
		srv := newServer(t, opts)

		rec := do(srv, http.MethodGet, "/courses/search?q=organic+chemistry&k=5", "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "organic chemistry", gotQuery)
		assert.Equal(t, 5, gotK)
		assert.Contains(t, rec.Body.String(), `"code":"CH 115"`)
	})

	t.Run("rejects a blank query", func(t *testing.T) {
		t.Parallel()

		opts := newOptions()
		opts.Retriever = &mock.Retriever{
			RetrieveFn: func(ctx context.Context, question string, k int) ([]courserec.SearchResult, error) {
				return nil, courserec.Errorf(courserec.EINVALID, "question required")
			},
		}
		srv := newServer(t, opts)

		rec := do(srv, http.MethodGet, "/courses/search", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	t.Run("reports the course count", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, newOptions())

		rec := do(srv, http.MethodGet, "/healthz", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","courses":42}`, stripSchema(t, rec.Body.Bytes()))
	})

	t.Run("is degraded when the store fails", func(t *testing.T) {
		t.Parallel()

		opts := newOptions()
		opts.Courses = &mock.CourseService{
			CountCoursesFn: func(ctx context.Context, year int) (int, error) {
				return 0, errors.New("database is locked")
			},
		}
		srv := newServer(t, opts)

		rec := do(srv, http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	})
}

func TestServer_RateLimit(t *testing.T) {
	t.Parallel()

	opts := newOptions()
	opts.RateLimit = cchttp.RateLimitSettings{RequestsPerSecond: 0.001, Burst: 1}
	srv := newServer(t, opts)

	first := do(srv, http.MethodGet, "/healthz", "")
	second := do(srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "courserec_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	opts := newOptions()
	opts.Gatherer = reg
	srv := newServer(t, opts)

	rec := do(srv, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "courserec_test_total 1")
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	t.Run("requires dependencies", func(t *testing.T) {
		t.Parallel()

		_, err := cchttp.NewServer(cchttp.Options{})

		assert.Equal(t, courserec.EINVALID, courserec.ErrorCode(err))
	})

	t.Run("requires a positive burst when rate limiting", func(t *testing.T) {
		t.Parallel()

		opts := newOptions()
		opts.RateLimit = cchttp.RateLimitSettings{RequestsPerSecond: 1}

		_, err := cchttp.NewServer(opts)

		assert.Equal(t, courserec.EINVALID, courserec.ErrorCode(err))
	})
}

// stripSchema removes the $schema link huma adds to JSON responses.
func stripSchema(t *testing.T, body []byte) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	delete(m, "$schema")
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return string(out)
}
