package mock

import (
	"context"

	"github.com/fwojciec/amzscrape"
)

var _ amzscrape.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of amzscrape.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *amzscrape.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *amzscrape.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
