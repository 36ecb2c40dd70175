// Package rod provides a Chrome-backed implementation of amzscrape.Fetcher
// for pages that only render behind a JavaScript challenge.
package rod

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/amzscrape"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page navigation.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements amzscrape.Fetcher at compile time.
var _ amzscrape.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	headers http.Header
	closed  atomic.Bool

	managerOpts []ManagerOption
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page navigation timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHeaders sets headers sent with every navigation. User-Agent and
// Accept-Language are applied as a browser override.
func WithHeaders(h http.Header) Option {
	return func(f *Fetcher) {
		f.headers = h.Clone()
	}
}

// WithProxy launches the browser behind proxy.
func WithProxy(proxy *url.URL) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, WithBrowserProxy(proxy))
	}
}

// WithMaxPagesPerBrowser sets how many pages a browser serves before it is
// recycled.
func WithMaxPagesPerBrowser(n int64) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, WithMaxPages(n))
	}
}

// NewFetcher launches a headless browser and returns a Fetcher using it.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	if lang := primaryLanguage(f.headers.Get("Accept-Language")); lang != "" {
		f.managerOpts = append(f.managerOpts, WithBrowserLanguage(lang))
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the request URL and returns the rendered HTML.
// A main document status other than 200 returns an ETRANSPORT error.
func (f *Fetcher) Fetch(ctx context.Context, req *amzscrape.FetchRequest) (string, error) {
	if f.closed.Load() {
		return "", amzscrape.Errorf(amzscrape.EINVALID, "fetcher is closed")
	}
	if req == nil {
		return "", amzscrape.Errorf(amzscrape.EINVALID, "fetch request required")
	}
	target, err := req.FullURL()
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", amzscrape.Errorf(amzscrape.ETRANSPORT, "opening page: %v", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	headers := mergeHeaders(f.headers, req.Headers)
	if ua := headers.Get("User-Agent"); ua != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      ua,
			AcceptLanguage: headers.Get("Accept-Language"),
		})
		if err != nil {
			return "", fetchError(ctx, target, err)
		}
		headers.Del("User-Agent")
	}
	if pairs := headerPairs(headers); len(pairs) > 0 {
		restore, err := page.SetExtraHeaders(pairs)
		if err != nil {
			return "", fetchError(ctx, target, err)
		}
		defer restore()
	}

	var status int
	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(target); err != nil {
		return "", fetchError(ctx, target, err)
	}
	waitDocument()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", amzscrape.Errorf(amzscrape.ETRANSPORT, "HTTP %d for %s", status, target)
	}

	if err := page.WaitLoad(); err != nil {
		return "", fetchError(ctx, target, err)
	}
	html, err := page.HTML()
	if err != nil {
		return "", fetchError(ctx, target, err)
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// fetchError reports a context error as is and anything else as a
// transport failure.
func fetchError(ctx context.Context, target string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return amzscrape.Errorf(amzscrape.ETRANSPORT, "navigating to %s: %v", target, err)
}

// primaryLanguage returns the first language tag of an Accept-Language
// value, e.g. "pt-BR" for "pt-BR,pt;q=0.9".
func primaryLanguage(accept string) string {
	tag, _, _ := strings.Cut(accept, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.TrimSpace(tag)
}

// mergeHeaders returns base overlaid with override.
func mergeHeaders(base, override http.Header) http.Header {
	out := base.Clone()
	if out == nil {
		out = http.Header{}
	}
	for k, vs := range override {
		out[http.CanonicalHeaderKey(k)] = vs
	}
	return out
}

// headerPairs flattens h into the key, value list expected by
// SetExtraHeaders, sorted by key. Multiple values are comma-joined.
func headerPairs(h http.Header) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		vs := h.Values(k)
		if len(vs) == 0 {
			continue
		}
		pairs = append(pairs, k, strings.Join(vs, ", "))
	}
	return pairs
}
