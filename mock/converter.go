package mock

import "github.com/fwojciec/courserec"

var _ courserec.Converter = (*Converter)(nil)

// Converter is a mock implementation of courserec.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
