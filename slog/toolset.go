package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webagent"
)

// Ensure LoggingToolset implements webagent.Toolset.
var _ webagent.Toolset = (*LoggingToolset)(nil)

// LoggingToolset wraps a Toolset with logging. Tool arguments are logged at
// debug level only since they may be long.
type LoggingToolset struct {
	next   webagent.Toolset
	logger *slog.Logger
}

// NewLoggingToolset creates a new LoggingToolset.
func NewLoggingToolset(next webagent.Toolset, logger *slog.Logger) *LoggingToolset {
	return &LoggingToolset{next: next, logger: logger}
}

// ListTools delegates to the wrapped toolset and logs the tool count.
func (t *LoggingToolset) ListTools(ctx context.Context) (tools []webagent.ToolDefinition, err error) {
	defer func(begin time.Time) {
		t.logger.Info("list tools",
			"count", len(tools),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.ListTools(ctx)
}

// outputPreviewLen bounds the tool output logged at debug level.
const outputPreviewLen = 200

// CallTool delegates to the wrapped toolset and logs the call.
func (t *LoggingToolset) CallTool(ctx context.Context, name string, arguments string) (output string, err error) {
	t.logger.Debug("call tool arguments", "tool", name, "arguments", arguments)
	defer func(begin time.Time) {
		t.logger.Debug("call tool output", "tool", name, "output", webagent.Truncate(output, outputPreviewLen))
		t.logger.Info("call tool",
			"tool", name,
			"bytes", len(output),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.CallTool(ctx, name, arguments)
}
