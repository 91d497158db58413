// Package mcp exposes webagent tools over the Model Context Protocol and
// consumes tools from MCP servers as webagent.Toolsets.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fwojciec/webagent"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName is the implementation name the server announces.
const ServerName = "websearch"

// Version is the implementation version announced by servers and clients.
const Version = "1.0.0"

// Tool names.
const (
	ToolWebReader     = "web_reader"
	ToolGeneralSearch = "get_general_search"
	ToolImageSearch   = "get_image_search"
	ToolVideoSearch   = "get_video_search"
)

// ReadInput is the input of the web_reader tool.
type ReadInput struct {
	URLs []string `json:"urls" jsonschema:"the URLs of the web pages to read"`
}

// SearchInput is the input of the search tools.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query"`
	SafeSearch bool   `json:"safe_search,omitempty" jsonschema:"filter explicit results, off by default"`
}

// Server serves the web reader and search tools.
type Server struct {
	server   *mcp.Server
	reader   webagent.Reader
	searcher webagent.Searcher
	logger   *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithSearcher enables the search tools. Without a searcher only
// web_reader is offered.
func WithSearcher(searcher webagent.Searcher) ServerOption {
	return func(s *Server) {
		s.searcher = searcher
	}
}

// WithServerLogger sets the logger used for tool failures.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server that reads pages with reader.
func NewServer(reader webagent.Reader, opts ...ServerOption) *Server {
	s := &Server{
		reader: reader,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: Version}, nil)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolWebReader,
		Description: "Read the main content of web pages as Markdown. Pages are read concurrently; pages that cannot be read are marked as failed.",
	}, s.handleRead)

	if s.searcher != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolGeneralSearch,
			Description: "Search information on Google, search mode is safe or off",
		}, s.searchHandler(webagent.SearchGeneral))
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolImageSearch,
			Description: "Search images on Google, search mode is safe or off",
		}, s.searchHandler(webagent.SearchImages))
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        ToolVideoSearch,
			Description: "Search videos on Google, search mode is safe or off",
		}, s.searchHandler(webagent.SearchVideos))
	}

	return s
}

// Run serves a single client over transport until it disconnects or ctx
// is cancelled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// Connect starts a session over transport and returns without waiting
// for it to end.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}

// Handler returns an http.Handler serving the tools over the streamable
// HTTP transport. Every client session shares the same tools.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

func (s *Server) handleRead(ctx context.Context, _ *mcp.CallToolRequest, in ReadInput) (*mcp.CallToolResult, any, error) {
	// An empty list reads nothing and yields empty text.
	return textResult(s.reader.ReadAll(ctx, in.URLs)), nil, nil
}

func (s *Server) searchHandler(t webagent.SearchType) mcp.ToolHandlerFor[SearchInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
		results, err := s.searcher.Search(ctx, webagent.SearchRequest{
			Query:      in.Query,
			Type:       t,
			SafeSearch: in.SafeSearch,
		})
		if err != nil {
			s.logger.Warn("search failed", "type", t, "query", in.Query, "err", err)
			return errorResult(toolError(err)), nil, nil
		}
		// No results are reported as false rather than an empty list.
		if len(results) == 0 {
			return textResult("false"), nil, nil
		}
		data, err := json.Marshal(results)
		if err != nil {
			return nil, nil, err
		}
		return textResult(string(data)), nil, nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// toolError returns the message shown to the model for err.
func toolError(err error) string {
	if webagent.ErrorCode(err) != webagent.EINTERNAL {
		return webagent.ErrorMessage(err)
	}
	return err.Error()
}
