package goquery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/amzscrape"
)

// RowExtractor turns one search-result row into an item. The item shape
// belongs to the implementation.
type RowExtractor[T any] interface {
	ExtractRow(row *goquery.Selection) (T, error)
}

// RowExtractorFunc adapts a function to RowExtractor.
type RowExtractorFunc[T any] func(row *goquery.Selection) (T, error)

// ExtractRow calls f(row).
func (f RowExtractorFunc[T]) ExtractRow(row *goquery.Selection) (T, error) {
	return f(row)
}

// PageExtractor reads the current page number from the pagination
// fragment. It returns nil when the fragment carries no page number.
type PageExtractor interface {
	ExtractPage(sel *goquery.Selection) (*int, error)
}

// RowHTML extracts each row as its outer HTML, leaving interpretation to
// the consumer.
type RowHTML struct{}

// ExtractRow returns the outer HTML of row.
func (RowHTML) ExtractRow(row *goquery.Selection) (string, error) {
	return goquery.OuterHtml(row)
}

// SearchSelectors holds the selector chains for a search results page.
type SearchSelectors struct {
	Results     SelectorChain
	CurrentPage SelectorChain
}

// DefaultSearchSelectors returns the selectors for the current search
// page template family.
func DefaultSearchSelectors() SearchSelectors {
	return SearchSelectors{
		Results:     SelectorChain{".puis-card-border"},
		CurrentPage: SelectorChain{".s-pagination-selected"},
	}
}

// SearchParser assembles search results using caller-supplied row and
// page extractors. Rows is required; when Pages is nil the requested page
// number is reported as the current page.
type SearchParser[T any] struct {
	Rows      RowExtractor[T]
	Pages     PageExtractor
	Selectors SearchSelectors
}

// NewSearchParser creates a SearchParser with the default selectors.
func NewSearchParser[T any](rows RowExtractor[T]) *SearchParser[T] {
	return &SearchParser[T]{
		Rows:      rows,
		Selectors: DefaultSearchSelectors(),
	}
}

// ParseSearch parses html into a SearchResult for page of query. Rows that
// fail to extract are skipped and reported in the returned error, which
// has code EMALFORMED.
func (p *SearchParser[T]) ParseSearch(html string, query string, page int) (*amzscrape.SearchResult[T], error) {
	if p.Rows == nil {
		return nil, amzscrape.Errorf(amzscrape.EINVALID, "search row extractor required")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, amzscrape.Errorf(amzscrape.EINVALID, "failed to parse HTML: %v", err)
	}
	root := doc.Selection

	result := &amzscrape.SearchResult[T]{
		Query:   query,
		Results: make([]T, 0),
	}

	var errs []error
	p.Selectors.Results.Select(root).Each(func(i int, row *goquery.Selection) {
		item, err := p.Rows.ExtractRow(row)
		if err != nil {
			errs = append(errs, &amzscrape.FieldError{
				Field: fmt.Sprintf("results[%d]", i),
				Text:  strings.TrimSpace(row.Text()),
				Err:   err,
			})
			return
		}
		result.Results = append(result.Results, item)
	})

	switch {
	case p.Pages != nil:
		sel := p.Selectors.CurrentPage.Select(root)
		current, err := p.Pages.ExtractPage(sel)
		if err != nil {
			errs = append(errs, &amzscrape.FieldError{
				Field: "current_page",
				Text:  strings.TrimSpace(sel.Text()),
				Err:   err,
			})
		} else {
			result.CurrentPage = current
		}
	case page >= 1:
		result.CurrentPage = &page
	}

	return result, errors.Join(errs...)
}

// Ensure SearchParser implements amzscrape.SearchParser at compile time.
var _ amzscrape.SearchParser[string] = (*SearchParser[string])(nil)
