package crawl_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/amzscrape"
	"github.com/fwojciec/amzscrape/crawl"
	"github.com/fwojciec/amzscrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchScraper serves the product id as page content and fails fetches
// for ids listed in failing. Pages whose id starts with "BAD" parse with
// a malformed rating.
func batchScraper(failing ...string) *crawl.Scraper {
	return &crawl.Scraper{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, req *amzscrape.FetchRequest) (string, error) {
				for _, id := range failing {
					if strings.Contains(req.URL, "/dp/"+id+"/") {
						return "", amzscrape.Errorf(amzscrape.ETRANSPORT, "HTTP 503 for %s", req.URL)
					}
				}
				return req.URL, nil
			},
		},
		Products: &mock.ProductParser{
			ParseProductFn: func(html string, target *amzscrape.ProductURL) (*amzscrape.ProductRecord, error) {
				rec := &amzscrape.ProductRecord{ID: target.ID}
				if strings.HasPrefix(target.ID, "BAD") {
					return rec, &amzscrape.FieldError{Field: "rating", Text: "7,2", Err: errors.New("out of range")}
				}
				return rec, nil
			},
		},
		RetryDelays: []time.Duration{},
		Concurrency: 2,
	}
}

func recordingStore(saved *[]string) *mock.ProductStore {
	return &mock.ProductStore{
		SaveFn: func(ctx context.Context, rec *amzscrape.ProductRecord) error {
			*saved = append(*saved, rec.ID)
			return nil
		},
	}
}

func TestScraper_ScrapeAll(t *testing.T) {
	t.Parallel()

	t.Run("counts every outcome and saves in input order", func(t *testing.T) {
		t.Parallel()

		urls := []string{
			"https://www.amazon.com.br/dp/B000000001/",
			"https://www.amazon.com.br/Titulo/dp/B000000001/ref=sr_1_2",
			"https://www.amazon.com.br/s?k=livros",
			"/dp/BAD0000002",
			"/dp/B000000003",
			"/Outro/dp/B000000004",
		}
		var saved []string

		result, err := batchScraper("B000000003").ScrapeAll(context.Background(), urls, recordingStore(&saved), nil)

		require.NoError(t, err)
		assert.Equal(t, &crawl.BatchResult{Saved: 3, Failed: 2, Skipped: 1, Malformed: 1}, result)
		assert.Equal(t, []string{"B000000001", "BAD0000002", "B000000004"}, saved)
	})

	t.Run("reports progress for each URL", func(t *testing.T) {
		t.Parallel()

		urls := []string{"/dp/B000000001", "/dp/B000000001", "/gp/help", "/dp/B000000002"}
		var events []crawl.ProgressEvent
		var saved []string

		_, err := batchScraper().ScrapeAll(context.Background(), urls, recordingStore(&saved), func(ev crawl.ProgressEvent) {
			events = append(events, ev)
		})

		require.NoError(t, err)
		require.Len(t, events, 6)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 4, events[0].Total)
		assert.Equal(t, crawl.ProgressFinished, events[5].Type)
		assert.Equal(t, 4, events[5].Completed)

		counts := map[crawl.ProgressType]int{}
		for i, ev := range events[1:5] {
			counts[ev.Type]++
			assert.Equal(t, i+1, ev.Completed)
			assert.Equal(t, 4, ev.Total)
		}
		assert.Equal(t, map[crawl.ProgressType]int{
			crawl.ProgressCompleted: 2,
			crawl.ProgressSkipped:   1,
			crawl.ProgressFailed:    1,
		}, counts)
	})

	t.Run("counts save failures", func(t *testing.T) {
		t.Parallel()

		store := &mock.ProductStore{
			SaveFn: func(ctx context.Context, rec *amzscrape.ProductRecord) error {
				return errors.New("read-only")
			},
		}

		result, err := batchScraper().ScrapeAll(context.Background(), []string{"/dp/B000000001"}, store, nil)

		require.NoError(t, err)
		assert.Equal(t, &crawl.BatchResult{Failed: 1}, result)
	})

	t.Run("handles an empty batch", func(t *testing.T) {
		t.Parallel()

		var saved []string
		result, err := batchScraper().ScrapeAll(context.Background(), nil, recordingStore(&saved), nil)

		require.NoError(t, err)
		assert.Equal(t, &crawl.BatchResult{}, result)
		assert.Empty(t, saved)
	})

	t.Run("returns the context error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := batchScraper()
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, req *amzscrape.FetchRequest) (string, error) {
				return "", ctx.Err()
			},
		}
		var saved []string

		result, err := s.ScrapeAll(ctx, []string{"/dp/B000000001", "/dp/B000000002"}, recordingStore(&saved), nil)

		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, result)
		assert.Equal(t, 2, result.Failed)
		assert.Empty(t, saved)
	})
}
