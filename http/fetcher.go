// Package http provides net/http implementations of the amzscrape
// transport, sitemap discovery and the JSON API server.
package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/amzscrape"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements amzscrape.Fetcher at compile time.
var _ amzscrape.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content using plain HTTP requests. It does not
// execute JavaScript.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	proxy   *url.URL
	headers http.Header
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithProxy routes every request through the given proxy.
func WithProxy(proxy *url.URL) Option {
	return func(f *Fetcher) {
		f.proxy = proxy
	}
}

// WithHeaders sets headers sent with every request. Headers on a
// FetchRequest take precedence over these.
func WithHeaders(h http.Header) Option {
	return func(f *Fetcher) {
		f.headers = h.Clone()
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if f.proxy != nil {
		transport.Proxy = http.ProxyURL(f.proxy)
	}

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: transport,
	}

	return f
}

// Fetch performs a GET for req and returns the response body.
// A non-200 status returns an ETRANSPORT error naming the status; the body
// of such a response is discarded.
func (f *Fetcher) Fetch(ctx context.Context, req *amzscrape.FetchRequest) (string, error) {
	if req == nil {
		return "", amzscrape.Errorf(amzscrape.EINVALID, "fetch request required")
	}
	target, err := req.FullURL()
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", amzscrape.Errorf(amzscrape.EINVALID, "invalid request for %s: %v", target, err)
	}
	for k, vs := range f.headers {
		httpReq.Header[k] = vs
	}
	for k, vs := range req.Headers {
		httpReq.Header[http.CanonicalHeaderKey(k)] = vs
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", amzscrape.Errorf(amzscrape.ETRANSPORT, "GET %s: %v", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", amzscrape.Errorf(amzscrape.ETRANSPORT, "HTTP %d for %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", amzscrape.Errorf(amzscrape.ETRANSPORT, "reading body of %s: %v", target, err)
	}

	return string(body), nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
