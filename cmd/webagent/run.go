package main

import (
	"fmt"

	"github.com/fwojciec/webagent"
	"github.com/fwojciec/webagent/agent"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	printer := NewPrinter(deps.Stdout)

	var (
		result *agent.Result
		err    error
	)
	switch c.Agent {
	case "search":
		searcher := agent.SearchAgent(deps.Model, deps.Toolset)
		result, err = deps.Runner.Run(deps.Ctx, searcher, c.Query, printer.Print)
	case "orchestrate":
		planner := agent.OrchestrationAgent(deps.Model)
		worker := agent.ArrangerAgent(deps.Model, deps.Toolset)
		result, err = deps.Runner.Orchestrate(deps.Ctx, planner, worker, c.Query, printer.Print)
	default:
		research := agent.ResearchAgent(deps.Model, deps.Toolset)
		planning := agent.PlanningAgent(deps.Model, research)
		result, err = deps.Runner.Run(deps.Ctx, planning, c.Query, printer.Print)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webagent.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout)
	fmt.Fprintf(deps.Stdout, "Final answer: %s\n", result.FinalOutput)
	return nil
}
