package agent

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/webagent"
)

// Default agent names.
const (
	PlanningAgentName      = "Planning Agent"
	ResearchAgentName      = "Research Agent"
	SearchAgentName        = "Web Search Agent"
	OrchestrationAgentName = "Orchestration Agent"
	ArrangerAgentName      = "Arranger Agent"
)

// PlanningInstructions are the default instructions of the planning agent.
const PlanningInstructions = `You are a planning agent. You are given a task and you need to plan the steps to complete the task.
Once you have planned the steps, output the steps in list first then you need to handoff the steps as tasks to appropriate agents.`

// ResearchInstructions are the default instructions of the research agent.
const ResearchInstructions = `You are a researcher. You will be given a task list in blue print.
You need to search relevant, high quality information from various sources and then summarize them in a informative and concise manner by using the provided tools.
Output should be in markdown format.`

// SearchInstructions are the default instructions of the web search agent.
const SearchInstructions = `You are a web search agent. You are given a query and you can use given tools to search the web for the most relevant information.`

// OrchestrationInstructions are the default instructions of the
// orchestration agent.
const OrchestrationInstructions = `You are a specialist in breaking down a task into subtasks and planning the order of execution.
The output should be a list of subtasks in order. Just output the JSON object, nothing else.

Output in JSON format:
{
    "subtasks": [
        {
            "name": "subtask1",
            "description": "subtask1 description"
        }
    ]
}`

// ArrangerInstructions are the default instructions of the arranger agent.
const ArrangerInstructions = `You will be given a list of subtasks containing the name and description of each subtask. Finish the tasks in the order of the list and do not skip any task.
You have several tools to help you accomplish a task. After you use a tool, always review whether the tool result is enough to finish the subtask. If not, consider using other tools or different parameters for the same tool.

You MUST NOT skip any subtask and you MUST finish all the subtasks.`

// PlanningAgent returns an agent that breaks a task into steps and hands
// them off to one of handoffs.
func PlanningAgent(model webagent.Model, handoffs ...*webagent.Agent) *webagent.Agent {
	return &webagent.Agent{
		Name:         PlanningAgentName,
		Instructions: PlanningInstructions,
		Model:        model,
		Handoffs:     handoffs,
	}
}

// ResearchAgent returns an agent that researches a task list with the
// tools of toolsets and answers in Markdown.
func ResearchAgent(model webagent.Model, toolsets ...webagent.Toolset) *webagent.Agent {
	return &webagent.Agent{
		Name:         ResearchAgentName,
		Instructions: ResearchInstructions,
		Model:        model,
		Toolsets:     toolsets,
	}
}

// SearchAgent returns a single agent that answers a query with the tools
// of toolsets.
func SearchAgent(model webagent.Model, toolsets ...webagent.Toolset) *webagent.Agent {
	return &webagent.Agent{
		Name:         SearchAgentName,
		Instructions: SearchInstructions,
		Model:        model,
		Toolsets:     toolsets,
	}
}

// OrchestrationAgent returns an agent that breaks a task into an ordered
// JSON list of subtasks without using tools.
func OrchestrationAgent(model webagent.Model) *webagent.Agent {
	return &webagent.Agent{
		Name:         OrchestrationAgentName,
		Instructions: OrchestrationInstructions,
		Model:        model,
	}
}

// ArrangerAgent returns an agent that carries out a list of subtasks in
// order with the tools of toolsets.
func ArrangerAgent(model webagent.Model, toolsets ...webagent.Toolset) *webagent.Agent {
	return &webagent.Agent{
		Name:         ArrangerAgentName,
		Instructions: ArrangerInstructions,
		Model:        model,
		Toolsets:     toolsets,
	}
}

// Subtask is one step of an orchestration plan.
type Subtask struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts both {"name": ..., "description": ...} objects and
// bare strings, which become the subtask name.
func (s *Subtask) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = Subtask{Name: name}
		return nil
	}
	type subtask Subtask
	var v subtask
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Subtask(v)
	return nil
}

// ParseSubtasks decodes a plan of the form
// {"subtasks": [{"name": "...", "description": "..."}, ...]}.
// The JSON may be wrapped in a Markdown code fence or surrounded by text.
// Subtasks without a name or description are dropped.
func ParseSubtasks(text string) ([]Subtask, error) {
	raw := strings.TrimSpace(text)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, webagent.Errorf(webagent.EINVALID, "no JSON object in plan")
	}

	var plan struct {
		Subtasks []Subtask `json:"subtasks"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &plan); err != nil {
		return nil, webagent.Errorf(webagent.EINVALID, "invalid plan: %v", err)
	}

	subtasks := make([]Subtask, 0, len(plan.Subtasks))
	for _, st := range plan.Subtasks {
		st.Name = strings.TrimSpace(st.Name)
		st.Description = strings.TrimSpace(st.Description)
		if st.Name == "" && st.Description == "" {
			continue
		}
		subtasks = append(subtasks, st)
	}
	if len(subtasks) == 0 {
		return nil, webagent.Errorf(webagent.EINVALID, "plan has no subtasks")
	}
	return subtasks, nil
}

// FormatSubtasks encodes subtasks as the plan JSON handed to the arranger.
func FormatSubtasks(subtasks []Subtask) string {
	data, _ := json.Marshal(struct {
		Subtasks []Subtask `json:"subtasks"`
	}{subtasks})
	return string(data)
}
