package mock

import "github.com/fwojciec/webagent"

var _ webagent.Converter = (*Converter)(nil)

// Converter is a mock implementation of webagent.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
