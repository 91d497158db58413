package webagent

import (
	"context"
	"fmt"
)

// ReadTimeoutMessage is returned by ReadAll when the batch deadline elapses
// before every page has been read.
const ReadTimeoutMessage = "Error: timed out while reading web pages"

// ReadFailureMessage is returned by ReadAll when the batch could not be
// orchestrated at all, for example when the caller cancels it.
func ReadFailureMessage(err error) string {
	return fmt.Sprintf("Error: failed to read web pages: %v", err)
}

// ReadFailedMarker stands in for a single page that could not be read.
func ReadFailedMarker(url string) string {
	return fmt.Sprintf("[failed to read %s]", url)
}

// ReadTimedOutMarker stands in for a single page that did not finish before
// the batch deadline when partial results are enabled.
func ReadTimedOutMarker(url string) string {
	return fmt.Sprintf("[timed out reading %s]", url)
}

// Reader turns web pages into compact Markdown text.
// Failures are reported as text, never as errors, since the output is
// handed straight to a model as a tool result.
type Reader interface {
	// ReadPage fetches and extracts a single page.
	// Returns an empty string if the page could not be read.
	ReadPage(ctx context.Context, url string) string

	// ReadAll reads all pages concurrently under one shared deadline and
	// joins the results with blank lines in completion order.
	ReadAll(ctx context.Context, urls []string) string
}
