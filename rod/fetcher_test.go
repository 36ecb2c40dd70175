//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/amzscrape"
	"github.com/fwojciec/amzscrape/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Fetcher implements amzscrape.Fetcher.
var _ amzscrape.Fetcher = (*rod.Fetcher)(nil)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns rendered HTML", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><body>
<span id="productTitle">Carregando...</span>
<script>document.getElementById('productTitle').textContent = 'Pedômetro';</script>
</body></html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), &amzscrape.FetchRequest{URL: srv.URL})

		require.NoError(t, err)
		assert.Contains(t, html, "Pedômetro")
		assert.NotContains(t, html, "Carregando...")
	})

	t.Run("sends configured headers and params", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><pre id="ua">` + r.Header.Get("User-Agent") +
				`</pre><pre id="q">` + r.URL.Query().Get("k") + `</pre></body></html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewFetcher(rod.WithHeaders(http.Header{"User-Agent": {"amzscrape-test"}}))
		require.NoError(t, err)
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), &amzscrape.FetchRequest{
			URL:    srv.URL,
			Params: map[string][]string{"k": {"livros"}},
		})

		require.NoError(t, err)
		assert.Contains(t, html, "amzscrape-test")
		assert.Contains(t, html, `<pre id="q">livros</pre>`)
	})

	t.Run("non-200 document is a transport error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`<html><body>captcha</body></html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		_, err = fetcher.Fetch(context.Background(), &amzscrape.FetchRequest{URL: srv.URL})

		assert.Equal(t, amzscrape.ETRANSPORT, amzscrape.ErrorCode(err))
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = fetcher.Fetch(ctx, &amzscrape.FetchRequest{URL: "http://example.com"})

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("times out on slow pages", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
			_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(100 * time.Millisecond))
		require.NoError(t, err)
		defer fetcher.Close()

		_, err = fetcher.Fetch(context.Background(), &amzscrape.FetchRequest{URL: srv.URL})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("fails after close", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		require.NoError(t, fetcher.Close())
		require.NoError(t, fetcher.Close())

		_, err = fetcher.Fetch(context.Background(), &amzscrape.FetchRequest{URL: "http://example.com"})

		assert.Equal(t, amzscrape.EINVALID, amzscrape.ErrorCode(err))
		assert.Contains(t, amzscrape.ErrorMessage(err), "closed")
	})
}
