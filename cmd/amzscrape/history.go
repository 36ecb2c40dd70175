package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/amzscrape"
	"github.com/fwojciec/amzscrape/crawl"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	target, err := amzscrape.ParseProductURL(c.URL, deps.Origin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", amzscrape.ErrorMessage(err))
		return err
	}

	snapshots, err := deps.Snapshots.FindSnapshots(deps.Ctx, amzscrape.SnapshotFilter{
		ProductID: &target.ID,
		Limit:     c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", amzscrape.ErrorMessage(err))
		return err
	}

	if len(snapshots) == 0 {
		fmt.Fprintf(deps.Stdout, "No snapshots for %s. Use 'amzscrape product --record' to create one.\n", target.ID)
		return nil
	}

	tw := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FETCHED\tPRICE\tBEFORE\tRATING\tHASH")
	for _, s := range snapshots {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.FetchedAt.Format(time.DateTime),
			crawl.FormatPrice(s.Record.CurrentPrice, deps.Currency),
			crawl.FormatPrice(s.Record.PriceBeforeDiscount, deps.Currency),
			formatRating(s.Record.Extra.Rating),
			s.PageHash,
		)
	}
	return tw.Flush()
}

func formatRating(r *float64) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *r)
}
