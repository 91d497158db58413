package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webagent"
)

// Ensure Extractor implements webagent.Extractor at compile time.
var _ webagent.Extractor = (*Extractor)(nil)

// contentSelectors identify the main content region, most specific first.
var contentSelectors = []string{
	"article",
	"main",
	`[role="main"]`,
}

// neverContent is removed before anything else, including the fallback text.
const neverContent = "script, style, noscript, template"

// boilerplateSelectors match elements that are never part of the readable
// content of a page.
const boilerplateSelectors = "iframe, svg, canvas, nav, footer, header, aside, form, " +
	"button, input, select, textarea, dialog, " +
	`[role="navigation"], [role="banner"], [role="contentinfo"], [role="complementary"], [aria-hidden="true"]`

// boilerplatePattern matches class and id values naming sidebars, menus,
// ads and similar page chrome. Tokens must stand alone or be delimited by
// "-" or "_", so "header-ad" matches but "download" does not.
var boilerplatePattern = regexp.MustCompile(`(?i)(^|[\s_-])(sidebar|menu|nav|navbar|ad|ads|advert|advertisement|banner|sponsor|sponsored|promo|cookie|popup|share|social)([\s_-]|$)`)

// Extractor extracts the main content of a page with CSS selectors.
// It prefers a semantic content region (article, main, role=main) and
// otherwise uses the body, removing navigation, ads and other chrome.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
// ContentHTML is empty when pruning leaves no text; Text carries the
// flattened, unpruned text of the content region (the body when no
// semantic region exists) for the caller to fall back on.
func (e *Extractor) Extract(html string) (*webagent.ExtractResult, error) {
	if strings.TrimSpace(html) == "" {
		return nil, webagent.Errorf(webagent.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, webagent.Errorf(webagent.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(neverContent).Remove()

	region := contentRegion(doc)

	// Fallback text comes from the region before pruning, so a semantic
	// region never picks up sibling navigation.
	result := &webagent.ExtractResult{
		Title: webagent.FlattenText(doc.Find("title").First().Text()),
		Text:  webagent.FlattenText(region.Text()),
	}

	prune(region)

	if strings.TrimSpace(region.Text()) == "" {
		return result, nil
	}

	contentHTML, err := renderRegion(region)
	if err != nil {
		return nil, err
	}
	result.ContentHTML = contentHTML

	return result, nil
}

// contentRegion returns the outermost elements matching the first content
// selector that matches anything, or the body.
func contentRegion(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		found := doc.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.ParentsFiltered(selector).Length() == 0
		})
		if found.Length() > 0 {
			return found
		}
	}
	return doc.Find("body")
}

// prune removes boilerplate elements inside the region.
func prune(region *goquery.Selection) {
	region.Find(boilerplateSelectors).Remove()
	region.Find("[class], [id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isBoilerplate(s)
	}).Remove()
}

func isBoilerplate(s *goquery.Selection) bool {
	if class, ok := s.Attr("class"); ok && boilerplatePattern.MatchString(class) {
		return true
	}
	if id, ok := s.Attr("id"); ok && boilerplatePattern.MatchString(id) {
		return true
	}
	return false
}

// renderRegion serializes the region. The body is rendered without its own
// tag; semantic regions keep theirs.
func renderRegion(region *goquery.Selection) (string, error) {
	if goquery.NodeName(region) == "body" {
		return region.Html()
	}

	var sb strings.Builder
	var renderErr error
	region.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		html, err := goquery.OuterHtml(s)
		if err != nil {
			renderErr = err
			return false
		}
		sb.WriteString(html)
		return true
	})
	if renderErr != nil {
		return "", renderErr
	}
	return sb.String(), nil
}
