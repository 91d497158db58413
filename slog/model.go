package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webagent"
)

// Ensure LoggingModel implements webagent.Model.
var _ webagent.Model = (*LoggingModel)(nil)

// LoggingModel wraps a Model with logging.
type LoggingModel struct {
	next   webagent.Model
	logger *slog.Logger
}

// NewLoggingModel creates a new LoggingModel.
func NewLoggingModel(next webagent.Model, logger *slog.Logger) *LoggingModel {
	return &LoggingModel{next: next, logger: logger}
}

// Generate delegates to the wrapped model and logs the turn.
func (m *LoggingModel) Generate(ctx context.Context, req *webagent.ModelRequest, onDelta func(string)) (resp *webagent.ModelResponse, err error) {
	defer func(begin time.Time) {
		var chars, calls int
		if resp != nil {
			chars = len(resp.Content)
			calls = len(resp.ToolCalls)
		}
		m.logger.Info("generate",
			"messages", len(req.Messages),
			"tools", len(req.Tools),
			"chars", chars,
			"tool_calls", calls,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.Generate(ctx, req, onDelta)
}
