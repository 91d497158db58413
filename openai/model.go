// Package openai implements webagent.Model with the OpenAI chat
// completions API. Any OpenAI-compatible server (DeepSeek, Ollama,
// LM Studio) works through WithBaseURL.
package openai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fwojciec/webagent"
	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gpt-4o-mini"

// Ensure Model implements webagent.Model at compile time.
var _ webagent.Model = (*Model)(nil)

// Model streams chat completions.
type Model struct {
	client openai.Client
	model  string
}

// Option configures a Model.
type Option func(*modelConfig)

type modelConfig struct {
	model   string
	baseURL string
	opts    []option.RequestOption
}

// WithModel sets the model name.
func WithModel(name string) Option {
	return func(c *modelConfig) {
		c.model = name
	}
}

// WithBaseURL points the client at an OpenAI-compatible server.
func WithBaseURL(u string) Option {
	return func(c *modelConfig) {
		c.baseURL = u
	}
}

// WithRequestOptions passes extra options to the underlying client.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *modelConfig) {
		c.opts = append(c.opts, opts...)
	}
}

// NewModel creates a Model authenticated with apiKey.
func NewModel(apiKey string, opts ...Option) *Model {
	cfg := &modelConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	reqOpts = append(reqOpts, cfg.opts...)

	return &Model{
		client: openai.NewClient(reqOpts...),
		model:  cfg.model,
	}
}

// Generate streams one assistant turn, passing text deltas to onDelta.
func (m *Model) Generate(ctx context.Context, req *webagent.ModelRequest, onDelta func(string)) (*webagent.ModelResponse, error) {
	stream := m.client.Chat.Completions.NewStreaming(ctx, m.params(req))
	defer stream.Close()

	var content strings.Builder
	calls := make(map[int64]*toolCallBuilder)

	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				content.WriteString(choice.Delta.Content)
				if onDelta != nil {
					onDelta(choice.Delta.Content)
				}
			}
			for _, delta := range choice.Delta.ToolCalls {
				call, ok := calls[delta.Index]
				if !ok {
					call = &toolCallBuilder{}
					calls[delta.Index] = call
				}
				if delta.ID != "" {
					call.id = delta.ID
				}
				if delta.Function.Name != "" {
					call.name = delta.Function.Name
				}
				call.arguments.WriteString(delta.Function.Arguments)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	return &webagent.ModelResponse{
		Content:   content.String(),
		ToolCalls: collectToolCalls(calls),
	}, nil
}

type toolCallBuilder struct {
	id        string
	name      string
	arguments strings.Builder
}

// collectToolCalls returns the accumulated calls in index order.
func collectToolCalls(calls map[int64]*toolCallBuilder) []webagent.ToolCall {
	indexes := make([]int64, 0, len(calls))
	for i := range calls {
		indexes = append(indexes, i)
	}
	sort.Slice(indexes, func(a, b int) bool { return indexes[a] < indexes[b] })

	var out []webagent.ToolCall
	for _, i := range indexes {
		call := calls[i]
		if call.name == "" {
			continue
		}
		id := call.id
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		args := strings.TrimSpace(call.arguments.String())
		if args == "" {
			args = "{}"
		}
		out = append(out, webagent.ToolCall{ID: id, Name: call.name, Arguments: args})
	}
	return out
}

func (m *Model) params(req *webagent.ModelRequest) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(m.model),
		Messages: messages(req),
	}
	if len(req.Tools) > 0 {
		params.Tools = tools(req.Tools)
	}
	return params
}

func messages(req *webagent.ModelRequest) []openai.ChatCompletionMessageParamUnion {
	var out []openai.ChatCompletionMessageParamUnion
	if req.Instructions != "" {
		out = append(out, openai.SystemMessage(req.Instructions))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case webagent.RoleUser:
			out = append(out, openai.UserMessage(msg.Content))
		case webagent.RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		case webagent.RoleAssistant:
			out = append(out, assistantMessage(msg))
		}
	}
	return out
}

func assistantMessage(msg webagent.Message) openai.ChatCompletionMessageParamUnion {
	var asst openai.ChatCompletionAssistantMessageParam
	if msg.Content != "" {
		asst.Content.OfString = openai.String(msg.Content)
	}
	for _, call := range msg.ToolCalls {
		asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: call.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			},
		})
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &asst}
}

func tools(defs []webagent.ToolDefinition) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(defs))
	for _, def := range defs {
		function := openai.FunctionDefinitionParam{
			Name:       def.Name,
			Parameters: def.Parameters,
		}
		if def.Description != "" {
			function.Description = openai.String(def.Description)
		}
		out = append(out, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: function,
				Type:     constant.ValueOf[constant.Function](),
			},
		})
	}
	return out
}
