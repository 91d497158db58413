package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/webagent"
	"github.com/fwojciec/webagent/agent"
	webmcp "github.com/fwojciec/webagent/mcp"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Reader   webagent.Reader
	Searcher webagent.Searcher
	Server   *webmcp.Server
	Toolset  webagent.Toolset
	Model    webagent.Model
	Runner   *agent.Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log debug output to stderr"`

	// Reader
	Browser      bool          `help:"Render pages in a headless browser before extracting"`
	Extractor    string        `enum:"goquery,trafilatura,readability" default:"goquery" help:"Content extractor (goquery, trafilatura, readability)"`
	FetchTimeout time.Duration `default:"10s" help:"Timeout per page request"`
	Deadline     time.Duration `default:"15s" help:"Deadline for reading a batch of pages"`
	Partial      bool          `help:"Keep finished pages when the batch deadline elapses"`

	// Search
	SerpAPIKey string  `name:"serpapi-key" env:"SERPAPI_API_KEY" help:"SerpAPI key for the search tools"`
	RateLimit  float64 `default:"0" help:"Search requests per second (0 for no limit)"`

	// Tool server used by agents; in-process when neither is set
	ServerURL     string `env:"WEBAGENT_SERVER_URL" help:"Streamable HTTP endpoint of a tool server"`
	ServerCommand string `env:"WEBAGENT_SERVER_COMMAND" help:"Command starting a tool server on stdio"`

	// Model
	Provider     string `enum:"openai,gemini" default:"openai" help:"Model provider (openai, gemini)"`
	Model        string `env:"WEBAGENT_MODEL" help:"Model name"`
	BaseURL      string `env:"OPENAI_BASE_URL" help:"Base URL of an OpenAI-compatible API"`
	OpenAIAPIKey string `name:"openai-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	GeminiAPIKey string `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key"`

	Serve  ServeCmd  `cmd:"" help:"Serve the web tools over MCP"`
	Read   ReadCmd   `cmd:"" help:"Read web pages as Markdown"`
	Search SearchCmd `cmd:"" help:"Search the web"`
	Tools  ToolsCmd  `cmd:"" help:"List the tools offered by the tool server"`
	Run    RunCmd    `cmd:"" help:"Research a question with the planning and research agents"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Listen string `short:"l" help:"Serve streamable HTTP on this address instead of stdio"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	URLs []string `arg:"" name:"url" help:"Pages to read"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search query"`
	Type  string `short:"t" enum:"general,images,videos" default:"general" help:"Result type (general, images, videos)"`
	Safe  bool   `help:"Filter explicit results"`
	Num   int    `short:"n" help:"Maximum number of results (0 for the type default)"`
}

// ToolsCmd is the "tools" subcommand.
type ToolsCmd struct{}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Query    string `arg:"" help:"Question to research"`
	Agent    string `short:"a" enum:"plan,search,orchestrate" default:"plan" help:"Agent flow: plan (planning hands off to research), search (single web search agent), orchestrate (plan subtasks, then carry them out)"`
	MaxTurns int    `default:"15" help:"Maximum number of model turns"`
}
