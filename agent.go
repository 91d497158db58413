package webagent

import (
	"context"
	"strings"
)

// Role identifies the author of a conversation message.
type Role string

// Role constants.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a model's request to invoke a named tool.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON object
}

// Message is one entry of a conversation history.
type Message struct {
	Role    Role
	Content string

	// ToolCalls is set on assistant messages that request tools.
	ToolCalls []ToolCall

	// ToolCallID and Name are set on tool messages.
	ToolCallID string
	Name       string
}

// ToolDefinition describes a tool a model may call.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"` // JSON Schema
}

// ModelRequest is the input of a single model turn.
type ModelRequest struct {
	Instructions string
	Messages     []Message
	Tools        []ToolDefinition
}

// ModelResponse is the output of a single model turn.
type ModelResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// Model generates assistant turns from a conversation.
type Model interface {
	// Generate runs one turn. onDelta, if non-nil, receives text as it is
	// produced; implementations that do not stream call it once.
	Generate(ctx context.Context, req *ModelRequest, onDelta func(string)) (*ModelResponse, error)
}

// Toolset is a source of tools, typically a connection to a tool server.
type Toolset interface {
	// ListTools returns the tools currently offered.
	ListTools(ctx context.Context) ([]ToolDefinition, error)

	// CallTool invokes a tool with JSON-encoded arguments and returns its
	// textual output.
	CallTool(ctx context.Context, name string, arguments string) (string, error)
}

// Agent is a named model configuration with instructions, tools and the
// agents it may hand the conversation off to.
type Agent struct {
	Name         string
	Instructions string
	Model        Model
	Toolsets     []Toolset
	Handoffs     []*Agent
}

// Validate returns an error if the agent contains invalid fields.
func (a *Agent) Validate() error {
	if a.Name == "" {
		return Errorf(EINVALID, "agent name required")
	}
	if a.Model == nil {
		return Errorf(EINVALID, "agent %q has no model", a.Name)
	}
	return nil
}

// HandoffToolName returns the name of the tool that transfers control to
// the agent, e.g. "transfer_to_research_agent".
func (a *Agent) HandoffToolName() string {
	var sb strings.Builder
	sb.WriteString("transfer_to_")
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(a.Name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			sb.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimRight(sb.String(), "_")
}
