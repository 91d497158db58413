package webagent

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	// Empty when pruning left nothing readable.
	ContentHTML string

	// Text is the flattened text of the content region before pruning,
	// or of the whole body when the page has no content region.
	// Readers fall back to it when ContentHTML yields nothing.
	Text string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}
