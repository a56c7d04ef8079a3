package mock

import "github.com/fwojciec/clipper"

var _ clipper.Converter = (*Converter)(nil)

// Converter is a mock implementation of clipper.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
