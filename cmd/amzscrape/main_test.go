package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/amzscrape"
	main "github.com/fwojciec/amzscrape/cmd/amzscrape"
	"github.com/fwojciec/amzscrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pedometerPage = `<html><body>
<span id="productTitle">Pedômetro Digital</span>
<div id="corePrice_feature_div"><span class="a-offscreen">R$ 89,90</span></div>
<div id="averageCustomerReviews_feature_div"><span class="a-color-base">4,6</span></div>
</body></html>`

// pageFetcher serves html for every request and records requested URLs.
func pageFetcher(html string, requested *[]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, req *amzscrape.FetchRequest) (string, error) {
			if requested != nil {
				u, err := req.FullURL()
				if err != nil {
					return "", err
				}
				*requested = append(*requested, u)
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no arguments prints help and fails", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "product")
		assert.Contains(t, stdout.String(), "resolve")
	})

	t.Run("resolve prints identity without fetching", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		m := main.NewMain()

		err := m.Run(context.Background(), []string{
			"resolve", "https://www.amazon.com.br/Pedometro/dp/B0CBBZ69H5/ref=sr_1_1?k=x",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "id:        B0CBBZ69H5")
		assert.Contains(t, stdout.String(), "slug:      Pedometro")
		assert.Contains(t, stdout.String(), "canonical: https://www.amazon.com.br/Pedometro/dp/B0CBBZ69H5/")
	})

	t.Run("resolve honours the origin flag", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{
			"--origin", "amazon.com", "resolve", "https://www.amazon.com/dp/B09T4YK6QK",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "canonical: https://www.amazon.com/dp/B09T4YK6QK/")
	})

	t.Run("product scrapes the canonical page", func(t *testing.T) {
		t.Parallel()

		var requested []string
		m := main.NewMain()
		m.Fetcher = pageFetcher(pedometerPage, &requested)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"product", "/dp/B0CBBZ69H5?th=1"}, stdout, stderr)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://www.amazon.com.br/dp/B0CBBZ69H5/"}, requested)
		assert.Contains(t, stdout.String(), `"id": "B0CBBZ69H5"`)
		assert.Contains(t, stdout.String(), `"title": "Pedômetro Digital"`)
		assert.Contains(t, stdout.String(), `"current_price": 89900`)
	})

	t.Run("product with --record shows up in history", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "history.db")

		m := main.NewMain()
		m.Fetcher = pageFetcher(pedometerPage, nil)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"--db", dbPath, "product", "--record", "/dp/B0CBBZ69H5"}, stdout, stderr)
		require.NoError(t, err, stderr.String())

		stdout.Reset()
		err = main.NewMain().Run(context.Background(), []string{"--db", dbPath, "history", "/dp/B0CBBZ69H5"}, stdout, stderr)

		require.NoError(t, err, stderr.String())
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "PRICE")
		assert.Contains(t, lines[1], "R$ 89,90")
		assert.Contains(t, lines[1], "4.6")
	})

	t.Run("history without snapshots explains how to record", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "history.db")
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--db", dbPath, "history", "/dp/B0CBBZ69H5"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No snapshots for B0CBBZ69H5")
	})

	t.Run("invalid proxy fails before fetching", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--proxy", "ftp://proxy:21", "product", "/dp/B0CBBZ69H5"}, stdout, stderr)

		assert.Equal(t, amzscrape.EINVALID, amzscrape.ErrorCode(err))
	})
}
