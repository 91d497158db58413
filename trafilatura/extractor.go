package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/webagent"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements webagent.Extractor at compile time.
var _ webagent.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main text of articles,
// news pages and blog posts.
type Extractor struct {
	opts trafilatura.Options
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithOriginalURL tells trafilatura where the page came from, which helps
// it resolve relative links and site metadata.
func WithOriginalURL(u *url.URL) Option {
	return func(e *Extractor) {
		e.opts.OriginalURL = u
	}
}

// WithComments keeps reader comments in the extracted content.
func WithComments(include bool) Option {
	return func(e *Extractor) {
		e.opts.ExcludeComments = !include
	}
}

// NewExtractor creates a new Extractor. Comments are excluded and links
// kept by default.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
			IncludeLinks:    true,
		},
	}
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

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, webagent.Errorf(webagent.ENOTFOUND, "no main content: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &webagent.ExtractResult{
		Title:       webagent.FlattenText(result.Metadata.Title),
		ContentHTML: contentHTML,
		Text:        webagent.FlattenText(result.ContentText),
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
