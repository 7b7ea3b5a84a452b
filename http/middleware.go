package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDContextKey contextKey = "courserec/request-id"

// RequestIDFromContext returns the request identifier stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDContextKey).(string); ok {
		return value
	}
	return ""
}

// requestIDMiddleware reuses a client supplied request id or generates one.
func (s *Server) requestIDMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		reqID := strings.TrimSpace(ctx.Header(RequestIDHeader))
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}
		ctx = huma.WithContext(ctx, context.WithValue(ctx.Context(), requestIDContextKey, reqID))
		ctx.SetHeader(RequestIDHeader, reqID)
		next(ctx)
	}
}

func (s *Server) rateLimitMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.limiter == nil {
			next(ctx)
			return
		}

		req, _ := humago.Unwrap(ctx)
		ip := clientIPFromRequest(req)
		if s.limiter.Allow(ip) {
			next(ctx)
			return
		}

		s.logger.Warn("request rate limited",
			"ip", ip,
			"path", ctx.URL().Path,
			"request_id", RequestIDFromContext(ctx.Context()),
		)
		ctx.SetHeader("Retry-After", "1")
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "rate limit exceeded")
	}
}

func (s *Server) loggingMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()
		next(ctx)

		status := ctx.Status()
		if status == 0 {
			status = http.StatusOK
		}

		attrs := []any{
			"method", ctx.Method(),
			"path", ctx.URL().Path,
			"status", status,
			"duration", time.Since(start),
			"request_id", RequestIDFromContext(ctx.Context()),
		}
		if op := ctx.Operation(); op != nil {
			attrs = append(attrs, "route", op.Path)
		}

		if status >= 500 {
			s.logger.Error("request failed", attrs...)
		} else {
			s.logger.Info("request completed", attrs...)
		}
	}
}

func (s *Server) recoveryMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					"path", ctx.URL().Path,
					"error", fmt.Sprint(rec),
				)
				_ = huma.WriteErr(s.api, ctx, http.StatusInternalServerError, "internal server error")
			}
		}()

		next(ctx)
	}
}

func clientIPFromRequest(req *http.Request) string {
	if req == nil {
		return ""
	}

	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(req.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}
