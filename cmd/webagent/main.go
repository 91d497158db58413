package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webagent"
	"github.com/fwojciec/webagent/agent"
	"github.com/fwojciec/webagent/gemini"
	"github.com/fwojciec/webagent/goquery"
	"github.com/fwojciec/webagent/htmltomarkdown"
	webhttp "github.com/fwojciec/webagent/http"
	webmcp "github.com/fwojciec/webagent/mcp"
	"github.com/fwojciec/webagent/openai"
	"github.com/fwojciec/webagent/readability"
	"github.com/fwojciec/webagent/rod"
	"github.com/fwojciec/webagent/serpapi"
	webslog "github.com/fwojciec/webagent/slog"
	"github.com/fwojciec/webagent/trafilatura"
	"github.com/fwojciec/webagent/webreader"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases everything opened by Run, most recent first.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webagent"),
		kong.Description("Read and search the web from the command line or through LLM agents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webagent --help' to see available commands")
	}

	if len(args) == 1 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	deps.Logger = newLogger(stderr, cli.Verbose)

	// Wire command-specific dependencies based on command
	cmd := strings.Fields(kongCtx.Command())[0]

	usesTools := cmd == "tools" || cmd == "run"
	inProcess := usesTools && cli.ServerURL == "" && cli.ServerCommand == ""

	if cmd == "serve" || cmd == "read" || inProcess {
		reader, err := m.newReader(cli, deps)
		if err != nil {
			return err
		}
		deps.Reader = reader
	}

	if cmd == "serve" || cmd == "search" || inProcess {
		if cli.SerpAPIKey != "" {
			deps.Searcher = webslog.NewLoggingSearcher(
				serpapi.NewSearcher(cli.SerpAPIKey, serpapi.WithRateLimit(cli.RateLimit)),
				deps.Logger,
			)
		} else if cmd == "search" {
			fmt.Fprintln(stderr, "Hint: Get an API key at https://serpapi.com/manage-api-key")
			return fmt.Errorf("SERPAPI_API_KEY not set")
		}
	}

	if cmd == "serve" || inProcess {
		opts := []webmcp.ServerOption{webmcp.WithServerLogger(deps.Logger)}
		if deps.Searcher != nil {
			opts = append(opts, webmcp.WithSearcher(deps.Searcher))
		}
		deps.Server = webmcp.NewServer(deps.Reader, opts...)
	}

	if usesTools {
		toolset, err := m.connect(ctx, cli, deps)
		if err != nil {
			return err
		}
		deps.Toolset = webslog.NewLoggingToolset(toolset, deps.Logger)
	}

	if cmd == "run" {
		model, err := newModel(ctx, cli)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set OPENAI_API_KEY or GEMINI_API_KEY, or use --base-url for a local server")
			return err
		}
		deps.Model = webslog.NewLoggingModel(model, deps.Logger)
		deps.Runner = agent.NewRunner(
			agent.WithMaxTurns(cli.Run.MaxTurns),
			agent.WithLogger(deps.Logger),
		)
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (m *Main) newReader(cli *CLI, deps *Dependencies) (*webreader.Reader, error) {
	var fetcher webagent.Fetcher = webhttp.NewFetcher(webhttp.WithTimeout(cli.FetchTimeout))
	if cli.Browser {
		f, err := rod.NewFetcher(rod.WithTimeout(cli.FetchTimeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	}
	m.closers = append(m.closers, fetcher.Close)

	extractor, err := newExtractor(cli.Extractor)
	if err != nil {
		return nil, err
	}

	return webreader.New(
		webslog.NewLoggingFetcher(fetcher, deps.Logger),
		extractor,
		htmltomarkdown.NewConverter(),
		webreader.WithDeadline(cli.Deadline),
		webreader.WithPartialResults(cli.Partial),
		webreader.WithLogger(deps.Logger),
	), nil
}

func newExtractor(name string) (webagent.Extractor, error) {
	switch name {
	case "", "goquery":
		return goquery.NewExtractor(), nil
	case "trafilatura":
		return trafilatura.NewExtractor(), nil
	case "readability":
		return readability.NewExtractor(), nil
	}
	return nil, webagent.Errorf(webagent.EINVALID, "unknown extractor %q", name)
}

// connect opens the toolset agents use: a remote server when one is
// configured, otherwise the in-process server.
func (m *Main) connect(ctx context.Context, cli *CLI, deps *Dependencies) (*webmcp.Toolset, error) {
	var (
		toolset *webmcp.Toolset
		err     error
	)
	switch {
	case cli.ServerURL != "":
		if _, perr := url.ParseRequestURI(cli.ServerURL); perr != nil {
			return nil, webagent.Errorf(webagent.EINVALID, "invalid server URL %q", cli.ServerURL)
		}
		toolset, err = webmcp.ConnectURL(ctx, cli.ServerURL, nil)
	case cli.ServerCommand != "":
		fields := strings.Fields(cli.ServerCommand)
		toolset, err = webmcp.ConnectCommand(ctx, fields[0], fields[1:]...)
	default:
		serverTransport, clientTransport := mcp.NewInMemoryTransports()
		session, serr := deps.Server.Connect(ctx, serverTransport)
		if serr != nil {
			return nil, fmt.Errorf("starting tool server: %w", serr)
		}
		m.closers = append(m.closers, session.Close)
		toolset, err = webmcp.Connect(ctx, clientTransport)
	}
	if err != nil {
		return nil, err
	}
	m.closers = append(m.closers, toolset.Close)
	return toolset, nil
}

func newModel(ctx context.Context, cli *CLI) (webagent.Model, error) {
	switch cli.Provider {
	case "gemini":
		if cli.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		client, err := gemini.NewClient(ctx, cli.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		var opts []gemini.Option
		if cli.Model != "" {
			opts = append(opts, gemini.WithModel(cli.Model))
		}
		return gemini.NewModel(client, opts...), nil
	default:
		// Local OpenAI-compatible servers accept any key.
		if cli.OpenAIAPIKey == "" && cli.BaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		var opts []openai.Option
		if cli.Model != "" {
			opts = append(opts, openai.WithModel(cli.Model))
		}
		if cli.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cli.BaseURL))
		}
		return openai.NewModel(cli.OpenAIAPIKey, opts...), nil
	}
}
