package gemini_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/webagent"
	"github.com/fwojciec/webagent/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("sets instructions and tool declarations", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig(&webagent.ModelRequest{
			Instructions: "Plan the research.",
			Tools: []webagent.ToolDefinition{{
				Name:        "web_reader",
				Description: "Read pages",
				Parameters:  map[string]any{"type": "object"},
			}},
		})

		require.NotNil(t, config.SystemInstruction)
		assert.Equal(t, "Plan the research.", config.SystemInstruction.Parts[0].Text)
		require.Len(t, config.Tools, 1)
		require.Len(t, config.Tools[0].FunctionDeclarations, 1)
		decl := config.Tools[0].FunctionDeclarations[0]
		assert.Equal(t, "web_reader", decl.Name)
		assert.Equal(t, "Read pages", decl.Description)
		assert.Equal(t, map[string]any{"type": "object"}, decl.ParametersJsonSchema)
	})

	t.Run("omits empty instructions and tools", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig(&webagent.ModelRequest{})

		assert.Nil(t, config.SystemInstruction)
		assert.Empty(t, config.Tools)
	})
}

func TestBuildContents(t *testing.T) {
	t.Parallel()

	t.Run("maps roles and tool calls", func(t *testing.T) {
		t.Parallel()

		contents := gemini.BuildContents([]webagent.Message{
			{Role: webagent.RoleUser, Content: "compare two pages"},
			{Role: webagent.RoleAssistant, Content: "Reading.", ToolCalls: []webagent.ToolCall{
				{ID: "c1", Name: "web_reader", Arguments: `{"urls":["https://a.example"]}`},
				{ID: "c2", Name: "web_reader", Arguments: `{"urls":["https://b.example"]}`},
			}},
			{Role: webagent.RoleTool, ToolCallID: "c1", Name: "web_reader", Content: "page a"},
			{Role: webagent.RoleTool, ToolCallID: "c2", Name: "web_reader", Content: "page b"},
		})

		require.Len(t, contents, 3)
		assert.Equal(t, genai.RoleUser, contents[0].Role)

		model := contents[1]
		assert.Equal(t, genai.RoleModel, model.Role)
		require.Len(t, model.Parts, 3)
		assert.Equal(t, "Reading.", model.Parts[0].Text)
		assert.Equal(t, "c1", model.Parts[1].FunctionCall.ID)
		assert.Equal(t, []any{"https://a.example"}, model.Parts[1].FunctionCall.Args["urls"])

		results := contents[2]
		assert.Equal(t, genai.RoleUser, results.Role)
		require.Len(t, results.Parts, 2)
		assert.Equal(t, "c2", results.Parts[1].FunctionResponse.ID)
		assert.Equal(t, map[string]any{"output": "page b"}, results.Parts[1].FunctionResponse.Response)
	})

	t.Run("keeps malformed arguments as input", func(t *testing.T) {
		t.Parallel()

		contents := gemini.BuildContents([]webagent.Message{
			{Role: webagent.RoleAssistant, ToolCalls: []webagent.ToolCall{{ID: "c1", Name: "x", Arguments: "not json"}}},
		})

		assert.Equal(t, map[string]any{"input": "not json"}, contents[0].Parts[0].FunctionCall.Args)
	})
}

// geminiServer answers generateContent requests with a fixed body.
type geminiServer struct {
	mu       sync.Mutex
	lastPath string
	lastBody string
	response string
}

func (s *geminiServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.lastPath = r.URL.Path
	s.lastBody = string(data)
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(s.response))
}

func newModel(t *testing.T, s *geminiServer) *gemini.Model {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)
	return gemini.NewModel(client, gemini.WithModel("test-model"))
}

func TestModel_Generate(t *testing.T) {
	t.Parallel()

	t.Run("returns text and forwards it as one delta", func(t *testing.T) {
		t.Parallel()

		s := &geminiServer{response: `{"candidates":[{"content":{"role":"model","parts":[{"text":"The answer."}]}}]}`}
		m := newModel(t, s)

		var deltas []string
		resp, err := m.Generate(context.Background(), &webagent.ModelRequest{
			Messages: []webagent.Message{{Role: webagent.RoleUser, Content: "question"}},
		}, func(d string) { deltas = append(deltas, d) })

		require.NoError(t, err)
		assert.Equal(t, "The answer.", resp.Content)
		assert.Equal(t, []string{"The answer."}, deltas)
		s.mu.Lock()
		defer s.mu.Unlock()
		assert.True(t, strings.HasSuffix(s.lastPath, "models/test-model:generateContent"), s.lastPath)
		assert.Contains(t, s.lastBody, "question")
	})

	t.Run("returns function calls with generated ids", func(t *testing.T) {
		t.Parallel()

		s := &geminiServer{response: `{"candidates":[{"content":{"role":"model","parts":[
			{"functionCall":{"name":"get_general_search","args":{"query":"go"}}}
		]}}]}`}
		m := newModel(t, s)

		resp, err := m.Generate(context.Background(), &webagent.ModelRequest{}, nil)

		require.NoError(t, err)
		require.Len(t, resp.ToolCalls, 1)
		call := resp.ToolCalls[0]
		assert.Equal(t, "get_general_search", call.Name)
		assert.JSONEq(t, `{"query":"go"}`, call.Arguments)
		assert.True(t, strings.HasPrefix(call.ID, "call_"))
	})

	t.Run("returns error without candidates", func(t *testing.T) {
		t.Parallel()

		s := &geminiServer{response: `{"candidates":[]}`}
		m := newModel(t, s)

		_, err := m.Generate(context.Background(), &webagent.ModelRequest{}, nil)

		require.Error(t, err)
		assert.Equal(t, webagent.EINTERNAL, webagent.ErrorCode(err))
	})
}

func TestNewClient_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewClient(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, webagent.EINVALID, webagent.ErrorCode(err))
}
