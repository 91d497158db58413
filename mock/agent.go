package mock

import (
	"context"

	"github.com/fwojciec/webagent"
)

// Compile-time interface verification.
var (
	_ webagent.Model   = (*Model)(nil)
	_ webagent.Toolset = (*Toolset)(nil)
)

// Model is a mock implementation of webagent.Model.
type Model struct {
	GenerateFn func(ctx context.Context, req *webagent.ModelRequest, onDelta func(string)) (*webagent.ModelResponse, error)
}

func (m *Model) Generate(ctx context.Context, req *webagent.ModelRequest, onDelta func(string)) (*webagent.ModelResponse, error) {
	return m.GenerateFn(ctx, req, onDelta)
}

// Toolset is a mock implementation of webagent.Toolset.
type Toolset struct {
	ListToolsFn func(ctx context.Context) ([]webagent.ToolDefinition, error)
	CallToolFn  func(ctx context.Context, name string, arguments string) (string, error)
}

func (t *Toolset) ListTools(ctx context.Context) ([]webagent.ToolDefinition, error) {
	return t.ListToolsFn(ctx)
}

func (t *Toolset) CallTool(ctx context.Context, name string, arguments string) (string, error) {
	return t.CallToolFn(ctx, name, arguments)
}
