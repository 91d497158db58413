package webagent

// Event is emitted by an agent run as it progresses. The set of event
// types is closed; consumers type-switch over the variants below.
type Event interface {
	isEvent()
}

// EmitFunc receives run events in order.
type EmitFunc func(Event)

// AgentUpdatedEvent reports that a different agent has taken over the run.
type AgentUpdatedEvent struct {
	Agent string
}

// ToolCallEvent reports that the model requested a tool.
type ToolCallEvent struct {
	Agent string
	Call  ToolCall
}

// ToolOutputEvent reports the output of a tool call.
type ToolOutputEvent struct {
	Agent  string
	CallID string
	Name   string
	Output string
}

// MessageOutputEvent reports a complete assistant message.
type MessageOutputEvent struct {
	Agent string
	Text  string
}

// RawResponseEvent carries a streamed text delta from the model.
type RawResponseEvent struct {
	Agent string
	Delta string
}

func (AgentUpdatedEvent) isEvent()  {}
func (ToolCallEvent) isEvent()      {}
func (ToolOutputEvent) isEvent()    {}
func (MessageOutputEvent) isEvent() {}
func (RawResponseEvent) isEvent()   {}
