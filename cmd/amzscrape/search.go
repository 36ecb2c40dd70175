package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/amzscrape"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	result, err := deps.Search.Search(deps.Ctx, c.Query, c.Page)
	if result == nil || !malformedOnly(err) {
		fmt.Fprintf(deps.Stderr, "error: %s\n", amzscrape.ErrorMessage(err))
		return err
	}
	reportWarnings(deps, err)

	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
