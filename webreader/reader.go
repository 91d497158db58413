// Package webreader turns lists of URLs into compact Markdown text.
// It fans out one task per URL under a shared batch deadline and
// composes a Fetcher, an Extractor and a Converter for each task.
package webreader

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/webagent"
	"golang.org/x/sync/errgroup"
)

// DefaultDeadline bounds a whole ReadAll batch.
const DefaultDeadline = 15 * time.Second

// Ensure Reader implements webagent.Reader at compile time.
var _ webagent.Reader = (*Reader)(nil)

// Reader implements webagent.Reader by orchestrating fetching, extraction,
// and conversion through injected dependencies.
type Reader struct {
	fetcher   webagent.Fetcher
	extractor webagent.Extractor
	converter webagent.Converter
	logger    *slog.Logger
	deadline  time.Duration
	partial   bool
}

// Option configures a Reader.
type Option func(*Reader)

// WithDeadline sets the deadline applied to each ReadAll batch.
// Defaults to DefaultDeadline if not specified.
func WithDeadline(d time.Duration) Option {
	return func(r *Reader) {
		r.deadline = d
	}
}

// WithLogger sets the logger used for per-page failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// WithPartialResults makes ReadAll return the pages that finished before
// the deadline, with a marker for each page that did not, instead of
// ReadTimeoutMessage.
func WithPartialResults(partial bool) Option {
	return func(r *Reader) {
		r.partial = partial
	}
}

// New creates a new Reader with the given dependencies.
func New(
	fetcher webagent.Fetcher,
	extractor webagent.Extractor,
	converter webagent.Converter,
	opts ...Option,
) *Reader {
	r := &Reader{
		fetcher:   fetcher,
		extractor: extractor,
		converter: converter,
		logger:    slog.New(slog.DiscardHandler),
		deadline:  DefaultDeadline,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadPage fetches, extracts, and converts a single page.
// It returns an empty string when the page could not be read.
func (r *Reader) ReadPage(ctx context.Context, url string) string {
	text, err := r.readPage(ctx, url)
	if err != nil {
		r.logger.Warn("read page failed", "url", url, "err", err)
		return ""
	}
	return text
}

func (r *Reader) readPage(ctx context.Context, url string) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = webagent.Errorf(webagent.EINTERNAL, "panic while reading %s: %v", url, p)
		}
	}()

	html, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	extracted, err := r.extractor.Extract(html)
	if err != nil {
		return "", err
	}

	if extracted.ContentHTML != "" {
		markdown, err := r.converter.Convert(extracted.ContentHTML)
		if err != nil {
			return "", err
		}
		text = webagent.CompactLines(markdown)
	}

	// Pruning can remove everything on pages without semantic markup.
	if text == "" {
		text = webagent.CompactLines(extracted.Text)
	}
	if text == "" {
		return "", webagent.Errorf(webagent.ENOTFOUND, "no readable content at %s", url)
	}

	return text, nil
}

// pageResult holds the outcome of reading a single URL.
type pageResult struct {
	position int
	text     string
}

// ReadAll reads every URL concurrently and joins the results with blank
// lines in the order the pages finished.
//
// Pages that fail are replaced by webagent.ReadFailedMarker. When the batch
// deadline elapses first, ReadAll returns webagent.ReadTimeoutMessage, or
// partial output if WithPartialResults is set. When ctx is cancelled it
// returns webagent.ReadFailureMessage.
func (r *Reader) ReadAll(ctx context.Context, urls []string) string {
	if len(urls) == 0 {
		return ""
	}

	batchCtx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	// Buffered so abandoned tasks never block after a timeout.
	resultCh := make(chan pageResult, len(urls))

	var g errgroup.Group
	for i, url := range urls {
		g.Go(func() error {
			text := r.ReadPage(batchCtx, url)
			if text == "" && batchCtx.Err() != nil {
				// Unfinished: the batch context cut the task short.
				return nil
			}
			if text == "" {
				text = webagent.ReadFailedMarker(url)
			}
			resultCh <- pageResult{position: i, text: text}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	finished := make([]bool, len(urls))
	parts := make([]string, 0, len(urls))
	collect := func(res pageResult) {
		finished[res.position] = true
		parts = append(parts, res.text)
	}

	for len(parts) < len(urls) {
		select {
		case res := <-resultCh:
			collect(res)
			continue
		case <-batchCtx.Done():
		case <-done:
		}

		// Either the batch ended early or every task returned; drain what
		// was delivered before deciding.
		for drained := false; !drained; {
			select {
			case res := <-resultCh:
				collect(res)
			default:
				drained = true
			}
		}
		if len(parts) == len(urls) {
			break
		}
		return r.unfinished(ctx, urls, finished, parts)
	}

	return strings.Join(parts, "\n\n")
}

// unfinished reports a batch that ended before every page was read.
func (r *Reader) unfinished(ctx context.Context, urls []string, finished []bool, parts []string) string {
	if err := ctx.Err(); err != nil {
		return webagent.ReadFailureMessage(err)
	}
	if !r.partial {
		return webagent.ReadTimeoutMessage
	}
	for i, url := range urls {
		if !finished[i] {
			parts = append(parts, webagent.ReadTimedOutMarker(url))
		}
	}
	return strings.Join(parts, "\n\n")
}
