package gobreaker

import (
	"context"

	"github.com/fwojciec/courserec"
	"github.com/sony/gobreaker/v2"
)

// Ensure Generator implements courserec.Generator.
var _ courserec.Generator = (*Generator)(nil)

// Generator wraps a Generator with a circuit breaker.
type Generator struct {
	next courserec.Generator
	cb   *gobreaker.CircuitBreaker[string]
}

// NewGenerator creates a Generator guarded by a breaker built from s.
func NewGenerator(next courserec.Generator, s Settings) *Generator {
	if s.Name == "" {
		s.Name = "generator"
	}
	return &Generator{next: next, cb: newBreaker[string](s)}
}

// Generate delegates to the wrapped generator unless the breaker is open.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	answer, err := g.cb.Execute(func() (string, error) {
		return g.next.Generate(ctx, prompt)
	})
	return answer, translate(g.cb.Name(), err)
}
