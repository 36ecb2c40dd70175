package mock

import (
	"context"

	"github.com/fwojciec/amzscrape"
)

var _ amzscrape.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of amzscrape.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, req *amzscrape.FetchRequest) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, req *amzscrape.FetchRequest) (string, error) {
	return f.FetchFn(ctx, req)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ amzscrape.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of amzscrape.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
