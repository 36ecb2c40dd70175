package main

import (
	"fmt"

	"github.com/fwojciec/amzscrape"
)

// Run executes the resolve command.
func (c *ResolveCmd) Run(deps *Dependencies) error {
	target, err := amzscrape.ParseProductURL(c.URL, deps.Origin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", amzscrape.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "id:        %s\n", target.ID)
	fmt.Fprintf(deps.Stdout, "slug:      %s\n", target.Slug)
	fmt.Fprintf(deps.Stdout, "canonical: %s\n", target.Canonical(deps.Origin))
	return nil
}
