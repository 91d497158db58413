package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webagent"
)

// Ensure LoggingSearcher implements webagent.Searcher.
var _ webagent.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with logging.
type LoggingSearcher struct {
	next   webagent.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next webagent.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the query.
func (s *LoggingSearcher) Search(ctx context.Context, req webagent.SearchRequest) (results []webagent.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", req.Query,
			"type", req.Type,
			"safe", req.SafeSearch,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, req)
}
