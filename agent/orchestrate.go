package agent

import (
	"context"
	"fmt"

	"github.com/fwojciec/webagent"
)

// Orchestrate runs planner on input to get a plan of subtasks, then runs
// worker with the plan as its input. It returns the worker's result.
//
// Returns EINVALID when the planner's answer holds no usable plan; the
// worker is not started in that case.
func (r *Runner) Orchestrate(ctx context.Context, planner, worker *webagent.Agent, input string, emit webagent.EmitFunc) (*Result, error) {
	plan, err := r.Run(ctx, planner, input, emit)
	if err != nil {
		return nil, err
	}

	subtasks, err := ParseSubtasks(plan.FinalOutput)
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", planner.Name, err)
	}
	r.logger.Debug("plan ready", "agent", planner.Name, "subtasks", len(subtasks))

	return r.Run(ctx, worker, FormatSubtasks(subtasks), emit)
}
