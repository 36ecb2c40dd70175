package mock

import (
	"context"

	"github.com/fwojciec/amzscrape"
)

var _ amzscrape.ProductParser = (*ProductParser)(nil)

// ProductParser is a mock implementation of amzscrape.ProductParser.
type ProductParser struct {
	ParseProductFn func(html string, target *amzscrape.ProductURL) (*amzscrape.ProductRecord, error)
}

func (p *ProductParser) ParseProduct(html string, target *amzscrape.ProductURL) (*amzscrape.ProductRecord, error) {
	return p.ParseProductFn(html, target)
}

var _ amzscrape.ProductService = (*ProductService)(nil)

// ProductService is a mock implementation of amzscrape.ProductService.
type ProductService struct {
	ScrapeProductFn func(ctx context.Context, rawURL string) (*amzscrape.ProductRecord, error)
}

func (s *ProductService) ScrapeProduct(ctx context.Context, rawURL string) (*amzscrape.ProductRecord, error) {
	return s.ScrapeProductFn(ctx, rawURL)
}
