package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fwojciec/webagent"
	"github.com/fwojciec/webagent/agent"
	main "github.com/fwojciec/webagent/cmd/webagent"
	"github.com/fwojciec/webagent/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCmd_Run(t *testing.T) {
	t.Parallel()

	var got []string
	reader := &mock.Reader{
		ReadAllFn: func(_ context.Context, urls []string) string {
			got = urls
			return "# Page\nBody"
		},
	}
	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Reader: reader}

	cmd := &main.ReadCmd{URLs: []string{"https://a.example", "https://b.example"}}
	err := cmd.Run(deps)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, got)
	assert.Equal(t, "# Page\nBody\n", stdout.String())
}

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints results as JSON", func(t *testing.T) {
		t.Parallel()

		var got webagent.SearchRequest
		searcher := &mock.Searcher{
			SearchFn: func(_ context.Context, req webagent.SearchRequest) ([]webagent.SearchResult, error) {
				got = req
				return []webagent.SearchResult{{Position: 1, Title: "Go", Link: "https://go.dev"}}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Searcher: searcher}

		cmd := &main.SearchCmd{Query: "golang", Type: "videos", Safe: true, Num: 3}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, webagent.SearchRequest{Query: "golang", Type: webagent.SearchVideos, SafeSearch: true, Num: 3}, got)
		var results []webagent.SearchResult
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &results))
		assert.Equal(t, "https://go.dev", results[0].Link)
	})

	t.Run("reports empty results", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.Searcher{
			SearchFn: func(_ context.Context, _ webagent.SearchRequest) ([]webagent.SearchResult, error) {
				return []webagent.SearchResult{}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Searcher: searcher}

		err := (&main.SearchCmd{Query: "zzz", Type: "general"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No results found.")
	})

	t.Run("prints error message", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.Searcher{
			SearchFn: func(_ context.Context, _ webagent.SearchRequest) ([]webagent.SearchResult, error) {
				return nil, webagent.Errorf(webagent.EINVALID, "search query required")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Searcher: searcher}

		err := (&main.SearchCmd{Type: "general"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: search query required\n", stderr.String())
	})
}

func TestToolsCmd_Run(t *testing.T) {
	t.Parallel()

	toolset := &mock.Toolset{
		ListToolsFn: func(_ context.Context) ([]webagent.ToolDefinition, error) {
			return []webagent.ToolDefinition{
				{Name: "get_general_search", Description: "Search information on Google"},
				{Name: "web_reader", Description: "Read web pages"},
			}, nil
		},
	}
	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Toolset: toolset}

	err := (&main.ToolsCmd{}).Run(deps)

	require.NoError(t, err)
	assert.Equal(t, "get_general_search  Search information on Google\nweb_reader  Read web pages\n", stdout.String())
}

func TestRunCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("hands off to research and prints progress", func(t *testing.T) {
		t.Parallel()

		toolset := &mock.Toolset{
			ListToolsFn: func(_ context.Context) ([]webagent.ToolDefinition, error) {
				return []webagent.ToolDefinition{{Name: "web_reader"}}, nil
			},
			CallToolFn: func(_ context.Context, _ string, _ string) (string, error) {
				return "page text", nil
			},
		}
		model := &mock.Model{
			GenerateFn: func(_ context.Context, req *webagent.ModelRequest, _ func(string)) (*webagent.ModelResponse, error) {
				switch req.Instructions {
				case agent.PlanningInstructions:
					return &webagent.ModelResponse{
						Content:   "Plan ready.",
						ToolCalls: []webagent.ToolCall{{ID: "h", Name: "transfer_to_research_agent", Arguments: "{}"}},
					}, nil
				default:
					if len(req.Messages) == 3 {
						return &webagent.ModelResponse{
							ToolCalls: []webagent.ToolCall{{ID: "r", Name: "web_reader", Arguments: `{"urls":["https://a.example"]}`}},
						}, nil
					}
					return &webagent.ModelResponse{Content: "Final report."}, nil
				}
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Toolset: toolset,
			Model:   model,
			Runner:  agent.NewRunner(),
		}

		err := (&main.RunCmd{Query: "AI in 2025"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Agent updated: Planning Agent\n"+
			"Running step: Plan ready.\n"+
			"Call Tool: transfer_to_research_agent with args: {}\n"+
			"Tool call output: {\"assistant\":\"Research Agent\"} ...\n"+
			"Agent updated: Research Agent\n"+
			"Call Tool: web_reader with args: {\"urls\":[\"https://a.example\"]}\n"+
			"Tool call output: page text ...\n"+
			"Running step: Final report.\n"+
			"\nFinal answer: Final report.\n", stdout.String())
	})

	t.Run("runs the single search agent", func(t *testing.T) {
		t.Parallel()

		var instructions []string
		model := &mock.Model{
			GenerateFn: func(_ context.Context, req *webagent.ModelRequest, _ func(string)) (*webagent.ModelResponse, error) {
				instructions = append(instructions, req.Instructions)
				return &webagent.ModelResponse{Content: "Go 1.25 is out."}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Toolset: &mock.Toolset{ListToolsFn: func(context.Context) ([]webagent.ToolDefinition, error) { return nil, nil }},
			Model:   model,
			Runner:  agent.NewRunner(),
		}

		err := (&main.RunCmd{Query: "latest Go release", Agent: "search"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{agent.SearchInstructions}, instructions)
		assert.Contains(t, stdout.String(), "Agent updated: Web Search Agent\n")
		assert.Contains(t, stdout.String(), "Final answer: Go 1.25 is out.\n")
	})

	t.Run("orchestrates subtasks through the arranger", func(t *testing.T) {
		t.Parallel()

		var arrangerInput string
		model := &mock.Model{
			GenerateFn: func(_ context.Context, req *webagent.ModelRequest, _ func(string)) (*webagent.ModelResponse, error) {
				if req.Instructions == agent.OrchestrationInstructions {
					return &webagent.ModelResponse{Content: `{"subtasks":[{"name":"news","description":"find market news"}]}`}, nil
				}
				arrangerInput = req.Messages[0].Content
				return &webagent.ModelResponse{Content: "Done with all subtasks."}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Toolset: &mock.Toolset{ListToolsFn: func(context.Context) ([]webagent.ToolDefinition, error) { return nil, nil }},
			Model:   model,
			Runner:  agent.NewRunner(),
		}

		err := (&main.RunCmd{Query: "stock market focus", Agent: "orchestrate"}).Run(deps)

		require.NoError(t, err)
		assert.JSONEq(t, `{"subtasks":[{"name":"news","description":"find market news"}]}`, arrangerInput)
		assert.Contains(t, stdout.String(), "Agent updated: Orchestration Agent\n")
		assert.Contains(t, stdout.String(), "Agent updated: Arranger Agent\n")
		assert.Contains(t, stdout.String(), "Final answer: Done with all subtasks.\n")
	})

	t.Run("prints run failure", func(t *testing.T) {
		t.Parallel()

		model := &mock.Model{
			GenerateFn: func(_ context.Context, _ *webagent.ModelRequest, _ func(string)) (*webagent.ModelResponse, error) {
				return nil, errors.New("rate limited")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Toolset: &mock.Toolset{ListToolsFn: func(context.Context) ([]webagent.ToolDefinition, error) { return nil, nil }},
			Model:   model,
			Runner:  agent.NewRunner(),
		}

		err := (&main.RunCmd{Query: "q"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "rate limited")
	})
}
