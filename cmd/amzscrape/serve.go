package main

import (
	"fmt"

	amzhttp "github.com/fwojciec/amzscrape/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := amzhttp.NewServer()
	srv.Products = deps.Products
	srv.Search = deps.Search
	srv.Snapshots = deps.Snapshots
	srv.Logger = deps.Logger

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", c.Addr)
	return srv.ListenAndServe(deps.Ctx, c.Addr)
}
