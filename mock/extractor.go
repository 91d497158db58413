package mock

import "github.com/fwojciec/webagent"

var _ webagent.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of webagent.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*webagent.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*webagent.ExtractResult, error) {
	return e.ExtractFn(html)
}
