package main

import (
	"fmt"

	"github.com/fwojciec/webagent"
)

// Run executes the tools command.
func (c *ToolsCmd) Run(deps *Dependencies) error {
	tools, err := deps.Toolset.ListTools(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webagent.ErrorMessage(err))
		return err
	}

	if len(tools) == 0 {
		fmt.Fprintln(deps.Stdout, "No tools offered.")
		return nil
	}

	for _, tool := range tools {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", tool.Name, tool.Description)
	}
	return nil
}
