package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/webagent"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Searcher.Search(deps.Ctx, webagent.SearchRequest{
		Query:      c.Query,
		Type:       webagent.SearchType(c.Type),
		SafeSearch: c.Safe,
		Num:        c.Num,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webagent.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results found.")
		return nil
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
