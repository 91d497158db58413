package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/webagent"
)

// outputPreviewLen is the number of characters of tool output printed.
const outputPreviewLen = 100

// Printer writes run progress to a terminal.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes one line for each event worth showing. Streamed deltas are
// skipped since the complete message follows.
func (p *Printer) Print(event webagent.Event) {
	switch e := event.(type) {
	case webagent.AgentUpdatedEvent:
		fmt.Fprintf(p.w, "Agent updated: %s\n", e.Agent)
	case webagent.ToolCallEvent:
		fmt.Fprintf(p.w, "Call Tool: %s with args: %s\n", e.Call.Name, e.Call.Arguments)
	case webagent.ToolOutputEvent:
		fmt.Fprintf(p.w, "Tool call output: %s ...\n", webagent.TruncateWith(e.Output, outputPreviewLen, ""))
	case webagent.MessageOutputEvent:
		if e.Text != "" {
			fmt.Fprintf(p.w, "Running step: %s\n", e.Text)
		}
	case webagent.RawResponseEvent:
	}
}
