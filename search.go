package amzscrape

import "context"

// SearchResult holds the rows and pagination state of one search page.
// The row type T is defined by whoever extracts the rows; no row schema
// is assumed here.
type SearchResult[T any] struct {
	Query       string `json:"query"`
	Results     []T    `json:"results"`
	CurrentPage *int   `json:"current_page"`
}

// SearchParser assembles a SearchResult from a search page. page is the
// page number that was requested for query.
type SearchParser[T any] interface {
	ParseSearch(html string, query string, page int) (*SearchResult[T], error)
}

// SearchService runs keyword searches against the store.
type SearchService[T any] interface {
	// Search fetches and parses one page of results for query.
	// Pages are numbered from 1; page < 1 returns EINVALID.
	Search(ctx context.Context, query string, page int) (*SearchResult[T], error)
}
