package gobreaker

import (
	"context"

	"github.com/fwojciec/courserec"
	"github.com/sony/gobreaker/v2"
)

// Ensure Fetcher implements courserec.Fetcher.
var _ courserec.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a Fetcher with a circuit breaker.
type Fetcher struct {
	next courserec.Fetcher
	cb   *gobreaker.CircuitBreaker[string]
}

// NewFetcher creates a Fetcher guarded by a breaker built from s.
func NewFetcher(next courserec.Fetcher, s Settings) *Fetcher {
	if s.Name == "" {
		s.Name = "catalog"
	}
	return &Fetcher{next: next, cb: newBreaker[string](s)}
}

// Fetch delegates to the wrapped fetcher unless the breaker is open.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	html, err := f.cb.Execute(func() (string, error) {
		return f.next.Fetch(ctx, url)
	})
	return html, translate(f.cb.Name(), err)
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}
