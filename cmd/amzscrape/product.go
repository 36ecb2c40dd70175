package main

import (
	"fmt"

	"github.com/fwojciec/amzscrape"
	"github.com/fwojciec/amzscrape/fs"
)

// Run executes the product command.
func (c *ProductCmd) Run(deps *Dependencies) error {
	rec, err := deps.Products.ScrapeProduct(deps.Ctx, c.URL)
	if rec == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", amzscrape.ErrorMessage(err))
		return err
	}
	reportWarnings(deps, err)

	if c.Output != "" {
		if werr := fs.NewWriter(c.Output).WriteProduct(deps.Ctx, rec); werr != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", werr)
			return werr
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s to %s\n", rec.ID, c.Output)
	} else {
		content, eerr := fs.EncodeProduct(rec)
		if eerr != nil {
			return eerr
		}
		if _, werr := deps.Stdout.Write(content); werr != nil {
			return werr
		}
	}

	if !malformedOnly(err) {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// reportWarnings prints one line per malformed field.
func reportWarnings(deps *Dependencies, err error) {
	for _, fe := range amzscrape.FieldErrors(err) {
		fmt.Fprintf(deps.Stderr, "warning: %v\n", fe)
	}
}

// malformedOnly reports whether err is nil or carries nothing worse than
// unparseable fields.
func malformedOnly(err error) bool {
	return err == nil || amzscrape.ErrorCode(err) == amzscrape.EMALFORMED
}
