package crawl

import (
	"context"
	"sync/atomic"

	"github.com/fwojciec/amzscrape"
	"github.com/fwojciec/amzscrape/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel fetches when Scraper.Concurrency is unset.
const DefaultConcurrency = 4

// dedupFalsePositiveRate is the Bloom filter error rate for product ids.
const dedupFalsePositiveRate = 0.001

// BatchResult holds the outcome of a ScrapeAll run.
type BatchResult struct {
	Saved     int
	Failed    int
	Skipped   int
	Malformed int
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	ProductID string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// productSet records product ids seen in a batch. The Bloom filter
// answers first-time ids; its positives are confirmed against ids.
type productSet struct {
	filter *bloom.Filter
	ids    map[string]struct{}
}

func newProductSet(n int, fpRate float64) *productSet {
	return &productSet{
		filter: bloom.NewFilter(uint(n), fpRate),
		ids:    make(map[string]struct{}, n),
	}
}

// seen records id and reports whether it was recorded before.
func (s *productSet) seen(id string) bool {
	maybe := s.filter.Seen(id)
	if maybe {
		if _, ok := s.ids[id]; ok {
			return true
		}
	}
	s.ids[id] = struct{}{}
	return false
}

// batchItem is one input URL and its outcome.
type batchItem struct {
	url     string
	target  *amzscrape.ProductURL
	pageURL string
	rec     *amzscrape.ProductRecord
	err     error
}

// ScrapeAll scrapes every URL and saves the parsed records to store in
// input order. URLs that do not resolve, or that resolve to a product id
// already seen in this batch, are not fetched. Per-URL failures are
// counted and reported through progress; only cancellation aborts the
// batch. Committing or aborting store is left to the caller.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string, store amzscrape.ProductStore, progress ProgressFunc) (*BatchResult, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	total := len(urls)
	result := &BatchResult{}
	var completed atomic.Int64
	report := func(typ ProgressType, item *batchItem) {
		ev := ProgressEvent{
			Type:      typ,
			Completed: int(completed.Add(1)),
			Total:     total,
			URL:       item.url,
			Error:     item.err,
		}
		if item.target != nil {
			ev.ProductID = item.target.ID
		}
		progress(ev)
	}

	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	seen := newProductSet(total, dedupFalsePositiveRate)
	var pending []*batchItem
	for _, rawURL := range urls {
		item := &batchItem{url: rawURL}
		item.target, item.pageURL, item.err = s.ProductPage(rawURL)
		switch {
		case item.err != nil:
			result.Failed++
			report(ProgressFailed, item)
		case seen.seen(item.target.ID):
			result.Skipped++
			report(ProgressSkipped, item)
		default:
			pending = append(pending, item)
		}
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	done := make(chan *batchItem, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	go func() {
		for _, item := range pending {
			g.Go(func() error {
				item.rec, item.err = s.scrape(gctx, item.target, item.pageURL)
				done <- item
				return nil
			})
		}
		_ = g.Wait()
		close(done)
	}()

	for item := range done {
		if item.rec == nil {
			report(ProgressFailed, item)
		} else {
			report(ProgressCompleted, item)
		}
	}

	for _, item := range pending {
		if item.rec == nil {
			result.Failed++
			continue
		}
		if len(amzscrape.FieldErrors(item.err)) > 0 {
			result.Malformed++
		}
		if err := store.Save(ctx, item.rec); err != nil {
			result.Failed++
			continue
		}
		result.Saved++
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
