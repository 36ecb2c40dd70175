// Package crawl orchestrates product scraping: it resolves product URLs,
// fetches pages with rate limiting and retries, parses them, and records
// snapshots and batch results.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/amzscrape"
)

// Ensure Scraper implements amzscrape.ProductService at compile time.
var _ amzscrape.ProductService = (*Scraper)(nil)

// Scraper fetches and parses product and search pages for one store
// origin.
type Scraper struct {
	Fetcher  amzscrape.Fetcher
	Products amzscrape.ProductParser

	// Snapshots, when set, records every successfully parsed product.
	Snapshots amzscrape.SnapshotService

	// RateLimiter, when set, is consulted before every request.
	RateLimiter amzscrape.DomainLimiter

	// Origin is the store origin. Defaults to amzscrape.DefaultOrigin.
	Origin string

	// Headers are sent with every request.
	Headers http.Header

	// RetryDelays are the backoff delays for transport failures. Nil
	// means DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// Concurrency bounds parallel fetches in ScrapeAll. Defaults to 4.
	Concurrency int

	// Logf, when set, receives retry notices.
	Logf LogFunc

	// Now returns the snapshot timestamp. Defaults to time.Now.
	Now func() time.Time
}

// ProductPage resolves rawURL and returns the product identity together
// with the canonical URL that would be fetched for it.
func (s *Scraper) ProductPage(rawURL string) (*amzscrape.ProductURL, string, error) {
	origin := s.origin()
	target, err := amzscrape.ParseProductURL(rawURL, origin)
	if err != nil {
		return nil, "", err
	}
	return target, target.Canonical(origin), nil
}

// ScrapeProduct resolves rawURL, fetches the canonical product page and
// parses it. Unresolvable URLs fail with ERESOLUTION before any request
// is made. The record is returned alongside any EMALFORMED error.
func (s *Scraper) ScrapeProduct(ctx context.Context, rawURL string) (*amzscrape.ProductRecord, error) {
	target, pageURL, err := s.ProductPage(rawURL)
	if err != nil {
		return nil, err
	}
	return s.scrape(ctx, target, pageURL)
}

func (s *Scraper) scrape(ctx context.Context, target *amzscrape.ProductURL, pageURL string) (*amzscrape.ProductRecord, error) {
	html, err := s.fetch(ctx, &amzscrape.FetchRequest{URL: pageURL, Headers: s.Headers})
	if err != nil {
		return nil, err
	}

	rec, parseErr := s.Products.ParseProduct(html, target)
	if rec == nil {
		return nil, parseErr
	}

	if s.Snapshots != nil {
		snapshot := &amzscrape.Snapshot{
			ProductID: rec.ID,
			SourceURL: pageURL,
			PageHash:  ComputeHash(html),
			Record:    rec,
			FetchedAt: s.now(),
		}
		if err := s.Snapshots.CreateSnapshot(ctx, snapshot); err != nil {
			return rec, errors.Join(parseErr, fmt.Errorf("recording snapshot: %w", err))
		}
	}

	return rec, parseErr
}

// Search fetches one search results page for query and parses it with
// parser. Pages are numbered from 1.
func Search[T any](ctx context.Context, s *Scraper, parser amzscrape.SearchParser[T], query string, page int) (*amzscrape.SearchResult[T], error) {
	if page < 1 {
		return nil, amzscrape.Errorf(amzscrape.EINVALID, "page must be at least 1, got %d", page)
	}

	req := &amzscrape.FetchRequest{
		URL: s.origin() + "/s",
		Params: url.Values{
			"k":   {query},
			"ref": {"sr_pg_" + strconv.Itoa(page)},
		},
		Headers: s.Headers,
	}
	html, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return parser.ParseSearch(html, query, page)
}

// Searcher adapts Search to amzscrape.SearchService for a fixed parser.
type Searcher[T any] struct {
	Scraper *Scraper
	Parser  amzscrape.SearchParser[T]
}

// Search implements amzscrape.SearchService.
func (s *Searcher[T]) Search(ctx context.Context, query string, page int) (*amzscrape.SearchResult[T], error) {
	return Search(ctx, s.Scraper, s.Parser, query, page)
}

var _ amzscrape.SearchService[string] = (*Searcher[string])(nil)

// fetch applies rate limiting and retries around the configured fetcher.
func (s *Scraper) fetch(ctx context.Context, req *amzscrape.FetchRequest) (string, error) {
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fetchFn := func(ctx context.Context, req *amzscrape.FetchRequest) (string, error) {
		if s.RateLimiter != nil {
			if err := s.RateLimiter.Wait(ctx, hostOf(req.URL)); err != nil {
				return "", err
			}
		}
		return s.Fetcher.Fetch(ctx, req)
	}
	return FetchWithRetryDelays(ctx, req, fetchFn, s.Logf, delays)
}

func (s *Scraper) origin() string {
	if s.Origin == "" {
		return amzscrape.NormalizeOrigin(amzscrape.DefaultOrigin)
	}
	return amzscrape.NormalizeOrigin(s.Origin)
}

func (s *Scraper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
