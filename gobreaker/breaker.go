// Package gobreaker guards remote dependencies with circuit breakers so a
// failing catalog site or model provider fails fast instead of stalling
// every request.
package gobreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/courserec"
	"github.com/sony/gobreaker/v2"
)

// Default breaker settings.
const (
	DefaultMaxRequests  = 1
	DefaultInterval     = time.Minute
	DefaultTimeout      = 30 * time.Second
	DefaultMinRequests  = 5
	DefaultFailureRatio = 0.6
)

// Settings configures a breaker. Zero values use the defaults.
type Settings struct {
	Name string

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval resets the failure counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// MinRequests and FailureRatio decide when the breaker opens.
	MinRequests  uint32
	FailureRatio float64

	Logger *slog.Logger
}

func newBreaker[T any](s Settings) *gobreaker.CircuitBreaker[T] {
	if s.MaxRequests == 0 {
		s.MaxRequests = DefaultMaxRequests
	}
	if s.Interval == 0 {
		s.Interval = DefaultInterval
	}
	if s.Timeout == 0 {
		s.Timeout = DefaultTimeout
	}
	if s.MinRequests == 0 {
		s.MinRequests = DefaultMinRequests
	}
	if s.FailureRatio == 0 {
		s.FailureRatio = DefaultFailureRatio
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: isSuccessful,
	})
}

// isSuccessful reports whether err leaves the remote side healthy. Missing
// pages and rejected input are answers, not outages.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	switch courserec.ErrorCode(err) {
	case courserec.ENOTFOUND, courserec.EINVALID, courserec.ENOTIMPLEMENTED:
		return true
	}
	return false
}

// translate maps breaker rejections to EUNAVAILABLE.
func translate(name string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return courserec.Errorf(courserec.EUNAVAILABLE, "%s is unavailable, try again later", name)
	}
	return err
}
