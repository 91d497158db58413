package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/webagent"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements webagent.Extractor at compile time.
var _ webagent.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability, the Firefox Reader View algorithm, to
// extract the main content of a page.
type Extractor struct {
	pageURL *url.URL
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPageURL resolves relative links in the content against u.
func WithPageURL(u *url.URL) Option {
	return func(e *Extractor) {
		e.pageURL = u
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*webagent.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webagent.Errorf(webagent.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.pageURL)
	if err != nil {
		return nil, webagent.Errorf(webagent.ENOTFOUND, "no readable content: %v", err)
	}

	return &webagent.ExtractResult{
		Title:       webagent.FlattenText(article.Title),
		ContentHTML: article.Content,
		Text:        webagent.FlattenText(article.TextContent),
	}, nil
}
