// Package gemini implements webagent.Model with Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fwojciec/webagent"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Model implements webagent.Model at compile time.
var _ webagent.Model = (*Model)(nil)

// Model implements webagent.Model using Google Gemini.
type Model struct {
	client *genai.Client
	model  string
}

// Option configures a Model.
type Option func(*Model)

// WithModel sets the model name.
func WithModel(name string) Option {
	return func(m *Model) {
		m.model = name
	}
}

// NewModel creates a new Model.
func NewModel(client *genai.Client, opts ...Option) *Model {
	m := &Model{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewClient creates a Gemini API client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, webagent.Errorf(webagent.EINVALID, "Gemini API key required")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// Generate runs one turn. The response is not streamed; onDelta receives
// the whole text at once.
func (m *Model) Generate(ctx context.Context, req *webagent.ModelRequest, onDelta func(string)) (*webagent.ModelResponse, error) {
	result, err := m.client.Models.GenerateContent(ctx, m.model, BuildContents(req.Messages), BuildConfig(req))
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Candidates) == 0 {
		return nil, webagent.Errorf(webagent.EINTERNAL, "gemini returned no candidates")
	}

	resp := &webagent.ModelResponse{Content: result.Text()}
	for _, call := range result.FunctionCalls() {
		resp.ToolCalls = append(resp.ToolCalls, toolCall(call))
	}

	if resp.Content != "" && onDelta != nil {
		onDelta(resp.Content)
	}
	return resp, nil
}

// BuildConfig returns the GenerateContentConfig for a request.
func BuildConfig(req *webagent.ModelRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if req.Instructions != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.Instructions}},
		}
	}
	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, tool := range req.Tools {
			decl := &genai.FunctionDeclaration{
				Name:        tool.Name,
				Description: tool.Description,
			}
			if tool.Parameters != nil {
				decl.ParametersJsonSchema = tool.Parameters
			}
			decls = append(decls, decl)
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return config
}

// BuildContents converts a conversation into Gemini contents. Consecutive
// tool results are sent together as one user turn, matching the calls of
// the preceding model turn.
func BuildContents(messages []webagent.Message) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case webagent.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		case webagent.RoleAssistant:
			content := &genai.Content{Role: genai.RoleModel}
			if msg.Content != "" {
				content.Parts = append(content.Parts, &genai.Part{Text: msg.Content})
			}
			for _, call := range msg.ToolCalls {
				content.Parts = append(content.Parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   call.ID,
						Name: call.Name,
						Args: decodeArgs(call.Arguments),
					},
				})
			}
			contents = append(contents, content)
		case webagent.RoleTool:
			part := &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       msg.ToolCallID,
					Name:     msg.Name,
					Response: map[string]any{"output": msg.Content},
				},
			}
			if n := len(contents); n > 0 && isToolResults(contents[n-1]) {
				contents[n-1].Parts = append(contents[n-1].Parts, part)
				continue
			}
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{part},
			})
		}
	}
	return contents
}

func isToolResults(c *genai.Content) bool {
	if c.Role != genai.RoleUser || len(c.Parts) == 0 {
		return false
	}
	for _, p := range c.Parts {
		if p.FunctionResponse == nil {
			return false
		}
	}
	return true
}

// decodeArgs parses JSON arguments. Malformed arguments are passed on as
// a single "input" string so the model can see what it sent.
func decodeArgs(arguments string) map[string]any {
	args := map[string]any{}
	if strings.TrimSpace(arguments) == "" {
		return args
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return map[string]any{"input": arguments}
	}
	return args
}

func toolCall(call *genai.FunctionCall) webagent.ToolCall {
	id := call.ID
	if id == "" {
		id = "call_" + uuid.NewString()
	}
	args := "{}"
	if len(call.Args) > 0 {
		if data, err := json.Marshal(call.Args); err == nil {
			args = string(data)
		}
	}
	return webagent.ToolCall{ID: id, Name: call.Name, Arguments: args}
}
