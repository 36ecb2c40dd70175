package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/amzscrape"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, req *amzscrape.FetchRequest) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retryable reports whether a failed fetch may succeed on a later attempt.
// Only transport failures are retried.
func Retryable(err error) bool {
	return amzscrape.ErrorCode(err) == amzscrape.ETRANSPORT
}

// FetchWithRetry fetches req with exponential backoff: up to 3 retries
// with delays of 1s, 2s and 4s. The logger, if provided, is called for
// each retry attempt.
func FetchWithRetry(ctx context.Context, req *amzscrape.FetchRequest, fetch FetchFunc, logger LogFunc) (string, error) {
	return FetchWithRetryDelays(ctx, req, fetch, logger, DefaultRetryDelays())
}

// FetchWithRetryDelays is like FetchWithRetry but with configurable delays.
// Errors that are not Retryable are returned immediately.
func FetchWithRetryDelays(ctx context.Context, req *amzscrape.FetchRequest, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, req)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if !Retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", req.URL, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
