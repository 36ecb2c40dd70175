package amzscrape

import (
	"context"
	"net/http"
	"net/url"
)

// FetchRequest describes a page to retrieve.
type FetchRequest struct {
	URL     string
	Params  url.Values
	Headers http.Header
}

// FullURL returns URL with Params encoded into its query string.
func (r *FetchRequest) FullURL() (string, error) {
	if len(r.Params) == 0 {
		return r.URL, nil
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid url %q: %v", r.URL, err)
	}
	q := u.Query()
	for k, vs := range r.Params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetcher retrieves raw HTML for a request.
// Implementations return an ETRANSPORT error for non-success responses
// and never interpret the body of a failed response.
type Fetcher interface {
	// Fetch retrieves the page described by req.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, req *FetchRequest) (html string, err error)

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
