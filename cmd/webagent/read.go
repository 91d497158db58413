package main

import "fmt"

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	fmt.Fprintln(deps.Stdout, deps.Reader.ReadAll(deps.Ctx, c.URLs))
	return nil
}
