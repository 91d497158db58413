package mock

import (
	"context"

	"github.com/fwojciec/webagent"
)

var _ webagent.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of webagent.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, req webagent.SearchRequest) ([]webagent.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, req webagent.SearchRequest) ([]webagent.SearchResult, error) {
	return s.SearchFn(ctx, req)
}
