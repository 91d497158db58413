// Package agent runs agents: it drives the model turn loop, dispatches
// tool calls to toolsets, and switches agents on handoff.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fwojciec/webagent"
)

// DefaultMaxTurns bounds the number of model turns in a run.
const DefaultMaxTurns = 10

// MultipleHandoffsOutput is the tool output for every handoff after the
// first one requested in the same turn.
const MultipleHandoffsOutput = "Multiple handoffs detected, ignoring this one."

// Result is the outcome of a completed run.
type Result struct {
	// FinalOutput is the text of the first assistant turn without tool calls.
	FinalOutput string

	// LastAgent is the agent that produced the final output.
	LastAgent *webagent.Agent

	// Messages is the full conversation, starting with the user input.
	Messages []webagent.Message

	// Turns is the number of model turns taken.
	Turns int
}

// Runner runs agents. A Runner holds no per-run state and may be used for
// concurrent runs.
type Runner struct {
	maxTurns int
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxTurns sets the maximum number of model turns per run.
func WithMaxTurns(n int) Option {
	return func(r *Runner) {
		r.maxTurns = n
	}
}

// WithLogger sets the logger used for tool failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		maxTurns: DefaultMaxTurns,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts a conversation with input and runs it until an agent answers
// without calling tools. Events are passed to emit, which may be nil.
//
// Tool failures are returned to the model as tool output and do not end
// the run. Returns EMAXTURNS when no answer is produced within the turn
// limit.
func (r *Runner) Run(ctx context.Context, start *webagent.Agent, input string, emit webagent.EmitFunc) (*Result, error) {
	if start == nil {
		return nil, webagent.Errorf(webagent.EINVALID, "starting agent required")
	}
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if emit == nil {
		emit = func(webagent.Event) {}
	}

	run := &run{
		runner:  r,
		emit:    emit,
		current: start,
		listed:  make(map[toolsetSlot][]webagent.ToolDefinition),
		history: []webagent.Message{{Role: webagent.RoleUser, Content: input}},
	}
	emit(webagent.AgentUpdatedEvent{Agent: start.Name})

	for turn := 1; turn <= r.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		done, err := run.turn(ctx)
		if err != nil {
			return nil, err
		}
		if done {
			return &Result{
				FinalOutput: run.history[len(run.history)-1].Content,
				LastAgent:   run.current,
				Messages:    run.history,
				Turns:       turn,
			}, nil
		}
	}

	return nil, webagent.Errorf(webagent.EMAXTURNS, "max turns (%d) exceeded", r.maxTurns)
}

// run holds the state of a single Run call.
type run struct {
	runner  *Runner
	emit    webagent.EmitFunc
	current *webagent.Agent
	listed  map[toolsetSlot][]webagent.ToolDefinition
	history []webagent.Message
}

// toolsetSlot identifies a toolset by its position in an agent's list, so
// toolsets need not be comparable.
type toolsetSlot struct {
	agent *webagent.Agent
	index int
}

// turn runs one model call and its tool calls. It reports whether the
// run is finished.
func (r *run) turn(ctx context.Context) (bool, error) {
	agent := r.current

	tools, owners, err := r.tools(ctx, agent)
	if err != nil {
		return false, err
	}
	handoffs := make(map[string]*webagent.Agent, len(agent.Handoffs))
	for _, h := range agent.Handoffs {
		name := h.HandoffToolName()
		handoffs[name] = h
		tools = append(tools, handoffTool(h))
	}

	resp, err := agent.Model.Generate(ctx, &webagent.ModelRequest{
		Instructions: agent.Instructions,
		Messages:     r.history,
		Tools:        tools,
	}, func(delta string) {
		r.emit(webagent.RawResponseEvent{Agent: agent.Name, Delta: delta})
	})
	if err != nil {
		return false, fmt.Errorf("agent %q: %w", agent.Name, err)
	}

	r.history = append(r.history, webagent.Message{
		Role:      webagent.RoleAssistant,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
	})
	if resp.Content != "" {
		r.emit(webagent.MessageOutputEvent{Agent: agent.Name, Text: resp.Content})
	}
	if len(resp.ToolCalls) == 0 {
		return true, nil
	}

	var next *webagent.Agent
	for _, call := range resp.ToolCalls {
		r.emit(webagent.ToolCallEvent{Agent: agent.Name, Call: call})

		var output string
		if target, ok := handoffs[call.Name]; ok {
			if next == nil {
				next = target
				output = handoffOutput(target)
			} else {
				output = MultipleHandoffsOutput
			}
		} else if owner, ok := owners[call.Name]; ok {
			output = r.callTool(ctx, owner, call)
		} else {
			output = fmt.Sprintf("Error: tool %q not found", call.Name)
		}

		r.history = append(r.history, webagent.Message{
			Role:       webagent.RoleTool,
			Content:    output,
			ToolCallID: call.ID,
			Name:       call.Name,
		})
		r.emit(webagent.ToolOutputEvent{Agent: agent.Name, CallID: call.ID, Name: call.Name, Output: output})
	}

	if next != nil {
		if err := next.Validate(); err != nil {
			return false, err
		}
		r.current = next
		r.emit(webagent.AgentUpdatedEvent{Agent: next.Name})
	}
	return false, nil
}

func (r *run) callTool(ctx context.Context, owner webagent.Toolset, call webagent.ToolCall) string {
	output, err := owner.CallTool(ctx, call.Name, call.Arguments)
	if err != nil {
		r.runner.logger.Warn("tool call failed", "tool", call.Name, "err", err)
		return "Error: " + errorText(err)
	}
	return output
}

// tools lists the tools of the agent's toolsets, listing each toolset once
// per run. The first toolset offering a name owns it.
func (r *run) tools(ctx context.Context, agent *webagent.Agent) ([]webagent.ToolDefinition, map[string]webagent.Toolset, error) {
	var tools []webagent.ToolDefinition
	owners := make(map[string]webagent.Toolset)
	for i, ts := range agent.Toolsets {
		slot := toolsetSlot{agent: agent, index: i}
		defs, ok := r.listed[slot]
		if !ok {
			var err error
			defs, err = ts.ListTools(ctx)
			if err != nil {
				return nil, nil, fmt.Errorf("agent %q: %w", agent.Name, err)
			}
			r.listed[slot] = defs
		}
		for _, def := range defs {
			if _, taken := owners[def.Name]; taken {
				continue
			}
			owners[def.Name] = ts
			tools = append(tools, def)
		}
	}
	return tools, owners, nil
}

func handoffTool(target *webagent.Agent) webagent.ToolDefinition {
	return webagent.ToolDefinition{
		Name:        target.HandoffToolName(),
		Description: fmt.Sprintf("Handoff to the %s agent to handle the request.", target.Name),
		Parameters: map[string]any{
			"type":                 "object",
			"properties":           map[string]any{},
			"additionalProperties": false,
		},
	}
}

func handoffOutput(target *webagent.Agent) string {
	data, _ := json.Marshal(map[string]string{"assistant": target.Name})
	return string(data)
}

// errorText returns the message of application errors and the full text
// of any other error.
func errorText(err error) string {
	var e *webagent.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
