package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/amzscrape"
	"github.com/fwojciec/amzscrape/crawl"
	"github.com/fwojciec/amzscrape/fs"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	urls := c.URLs
	if c.Sitemap != "" {
		discovered, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.Sitemap, amzscrape.ProductURLFilter())
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", amzscrape.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "  Found %d product URLs in sitemap\n", len(discovered))
		urls = append(urls, discovered...)
	}

	if len(urls) == 0 {
		err := amzscrape.Errorf(amzscrape.EINVALID, "no URLs to scrape")
		fmt.Fprintf(deps.Stderr, "error: %s\n", amzscrape.ErrorMessage(err))
		return err
	}

	if c.Concurrency > 0 {
		deps.Scraper.Concurrency = c.Concurrency
	}

	out := filepath.Clean(c.Out)
	store := fs.NewFileStore(filepath.Dir(out), filepath.Base(out))

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Scraping %d URLs\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] fail %s: %s\n", event.Completed, event.Total,
				crawl.TruncateURL(event.URL, 80), amzscrape.ErrorMessage(event.Error))
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] skip %s: duplicate of %s\n", event.Completed, event.Total,
				crawl.TruncateURL(event.URL, 80), event.ProductID)
		case crawl.ProgressCompleted:
			for _, fe := range amzscrape.FieldErrors(event.Error) {
				fmt.Fprintf(deps.Stderr, "  [%d/%d] %s: %v\n", event.Completed, event.Total, event.ProductID, fe)
			}
		}
	}

	result, err := deps.Scraper.ScrapeAll(deps.Ctx, urls, store, progress)
	if err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error scraping: %v\n", err)
		return err
	}

	if err := store.Commit(); err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Saved %d products to %s (%d failed, %d skipped, %d malformed)\n",
		result.Saved, out, result.Failed, result.Skipped, result.Malformed)
	return nil
}
