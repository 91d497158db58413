package mcp

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"slices"
	"strings"

	"github.com/fwojciec/webagent"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClientName is the implementation name the client announces.
const ClientName = "webagent"

// Ensure Toolset implements webagent.Toolset at compile time.
var _ webagent.Toolset = (*Toolset)(nil)

// Toolset is a client session with an MCP server. Its tools are offered to
// agents as a webagent.Toolset.
type Toolset struct {
	session *mcp.ClientSession
}

// Connect opens a session with the server at the other end of transport.
func Connect(ctx context.Context, transport mcp.Transport) (*Toolset, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: ClientName, Version: Version}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to tool server: %w", err)
	}
	return &Toolset{session: session}, nil
}

// ConnectCommand starts a server subprocess and talks to it over stdio.
// The process is stopped by Close.
func ConnectCommand(ctx context.Context, name string, args ...string) (*Toolset, error) {
	if name == "" {
		return nil, webagent.Errorf(webagent.EINVALID, "server command required")
	}
	cmd := exec.CommandContext(ctx, name, args...)
	return Connect(ctx, &mcp.CommandTransport{Command: cmd})
}

// ConnectURL talks to a server at a streamable HTTP endpoint. A nil
// httpClient uses http.DefaultClient.
func ConnectURL(ctx context.Context, endpoint string, httpClient *http.Client) (*Toolset, error) {
	if endpoint == "" {
		return nil, webagent.Errorf(webagent.EINVALID, "server URL required")
	}
	return Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint:   endpoint,
		HTTPClient: httpClient,
		MaxRetries: 3,
	})
}

// ListTools returns the server's tools sorted by name.
func (t *Toolset) ListTools(ctx context.Context) ([]webagent.ToolDefinition, error) {
	var defs []webagent.ToolDefinition
	for tool, err := range t.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("listing tools: %w", err)
		}
		if tool == nil || tool.Name == "" {
			continue
		}
		defs = append(defs, webagent.ToolDefinition{
			Name:        tool.Name,
			Description: strings.TrimSpace(tool.Description),
			Parameters:  schemaToMap(tool.InputSchema),
		})
	}
	slices.SortFunc(defs, func(a, b webagent.ToolDefinition) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return defs, nil
}

// CallTool calls a tool with JSON-encoded arguments and returns its text
// output. A result flagged as an error is returned as an error carrying the
// output.
func (t *Toolset) CallTool(ctx context.Context, name string, arguments string) (string, error) {
	args := map[string]any{}
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", webagent.Errorf(webagent.EINVALID, "invalid arguments for %s: %v", name, err)
		}
	}

	result, err := t.session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", name, err)
	}

	text := resultText(result)
	if result.IsError {
		return "", webagent.Errorf(webagent.EINTERNAL, "%s", text)
	}
	return text, nil
}

// Close ends the session.
func (t *Toolset) Close() error {
	return t.session.Close()
}

func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// schemaToMap converts a tool input schema into a plain JSON object.
func schemaToMap(schema any) map[string]any {
	switch v := schema.(type) {
	case nil:
		return nil
	case map[string]any:
		return v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		var out map[string]any
		if err := json.Unmarshal(encoded, &out); err != nil {
			return nil
		}
		return out
	}
}
