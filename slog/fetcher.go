package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/amzscrape"
)

// Ensure LoggingFetcher implements amzscrape.Fetcher.
var _ amzscrape.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with request logging.
type LoggingFetcher struct {
	next   amzscrape.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next amzscrape.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the request URL, response size and duration.
func (f *LoggingFetcher) Fetch(ctx context.Context, req *amzscrape.FetchRequest) (html string, err error) {
	defer func(begin time.Time) {
		target := ""
		if req != nil {
			target, _ = req.FullURL()
		}
		logOp(ctx, f.logger, "fetch", begin, err,
			slog.String("url", target),
			slog.Int("bytes", len(html)),
		)
	}(time.Now())
	return f.next.Fetch(ctx, req)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
