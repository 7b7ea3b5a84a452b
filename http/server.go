package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/fwojciec/courserec"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout is the grace period for in-flight requests on shutdown.
const ShutdownTimeout = 10 * time.Second

// Options configures the API server.
type Options struct {
	Recommender courserec.Recommender
	Retriever   courserec.Retriever
	Courses     courserec.CourseService

	// Year is the catalog year reported by the health check.
	Year int

	Logger *slog.Logger

	// Gatherer is exposed on /metrics when set.
	Gatherer prometheus.Gatherer

	RateLimit RateLimitSettings
}

// RateLimitSettings configures per-client rate limiting. A zero
// RequestsPerSecond disables it.
type RateLimitSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server is the JSON API for course recommendations.
type Server struct {
	api         huma.API
	mux         *http.ServeMux
	recommender courserec.Recommender
	retriever   courserec.Retriever
	courses     courserec.CourseService
	year        int
	logger      *slog.Logger
	limiter     *RateLimiter
}

// NewServer constructs the API server and registers its routes.
func NewServer(opts Options) (*Server, error) {
	if opts.Recommender == nil {
		return nil, courserec.Errorf(courserec.EINVALID, "recommender required")
	}
	if opts.Retriever == nil {
		return nil, courserec.Errorf(courserec.EINVALID, "retriever required")
	}
	if opts.Courses == nil {
		return nil, courserec.Errorf(courserec.EINVALID, "course service required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mux := http.NewServeMux()
	s := &Server{
		api:         humago.New(mux, huma.DefaultConfig("courserec", "1.0.0")),
		mux:         mux,
		recommender: opts.Recommender,
		retriever:   opts.Retriever,
		courses:     opts.Courses,
		year:        opts.Year,
		logger:      logger,
	}

	if rl := opts.RateLimit; rl.RequestsPerSecond > 0 {
		if rl.Burst <= 0 {
			return nil, courserec.Errorf(courserec.EINVALID, "rate limit burst must be greater than zero")
		}
		s.limiter = NewRateLimiter(rl.RequestsPerSecond, rl.Burst, rl.ClientTTL)
	}

	s.registerMiddlewares()
	s.registerRoutes()

	if opts.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down", "timeout", ShutdownTimeout)
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "recommend",
		Method:      http.MethodPost,
		Path:        "/recommend",
		Summary:     "Recommend courses for a question",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusTooManyRequests, http.StatusServiceUnavailable},
	}, s.recommendHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-courses",
		Method:      http.MethodGet,
		Path:        "/courses/search",
		Summary:     "Rank courses by similarity to a query",
		Errors:      []int{http.StatusBadRequest, http.StatusTooManyRequests, http.StatusServiceUnavailable},
	}, s.searchHandler)

	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

// Error translates an application error into an HTTP error.
func (s *Server) Error(ctx context.Context, err error) error {
	msg := courserec.ErrorMessage(err)
	switch courserec.ErrorCode(err) {
	case courserec.EINVALID:
		return huma.Error400BadRequest(msg)
	case courserec.ENOTFOUND:
		return huma.Error404NotFound(msg)
	case courserec.ECONFLICT:
		return huma.Error409Conflict(msg)
	case courserec.EUNAVAILABLE:
		return huma.Error503ServiceUnavailable(msg)
	case courserec.ENOTIMPLEMENTED:
		return huma.Error501NotImplemented(msg)
	default:
		s.logger.Error("request failed", "request_id", RequestIDFromContext(ctx), "error", err)
		return huma.Error500InternalServerError(msg)
	}
}
