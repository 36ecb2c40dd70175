package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/amzscrape"
)

// Ensure LoggingSitemapService implements amzscrape.SitemapService.
var _ amzscrape.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with discovery logging.
type LoggingSitemapService struct {
	next   amzscrape.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next amzscrape.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the URL count.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *amzscrape.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		logOp(ctx, s.logger, "sitemap discovery", begin, err,
			slog.String("url", baseURL),
			slog.Int("count", len(urls)),
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
