package mock

import (
	"context"

	"github.com/fwojciec/webagent"
)

var _ webagent.Reader = (*Reader)(nil)

// Reader is a mock implementation of webagent.Reader.
type Reader struct {
	ReadPageFn func(ctx context.Context, url string) string
	ReadAllFn  func(ctx context.Context, urls []string) string
}

func (r *Reader) ReadPage(ctx context.Context, url string) string {
	return r.ReadPageFn(ctx, url)
}

func (r *Reader) ReadAll(ctx context.Context, urls []string) string {
	return r.ReadAllFn(ctx, urls)
}
