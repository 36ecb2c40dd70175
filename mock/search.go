package mock

import (
	"context"

	"github.com/fwojciec/amzscrape"
)

var _ amzscrape.SearchParser[string] = (*SearchParser[string])(nil)

// SearchParser is a mock implementation of amzscrape.SearchParser.
type SearchParser[T any] struct {
	ParseSearchFn func(html string, query string, page int) (*amzscrape.SearchResult[T], error)
}

func (p *SearchParser[T]) ParseSearch(html string, query string, page int) (*amzscrape.SearchResult[T], error) {
	return p.ParseSearchFn(html, query, page)
}

var _ amzscrape.SearchService[string] = (*SearchService[string])(nil)

// SearchService is a mock implementation of amzscrape.SearchService.
type SearchService[T any] struct {
	SearchFn func(ctx context.Context, query string, page int) (*amzscrape.SearchResult[T], error)
}

func (s *SearchService[T]) Search(ctx context.Context, query string, page int) (*amzscrape.SearchResult[T], error) {
	return s.SearchFn(ctx, query, page)
}
