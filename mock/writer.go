package mock

import (
	"context"

	"github.com/fwojciec/amzscrape"
)

var _ amzscrape.ProductWriter = (*ProductWriter)(nil)

// ProductWriter is a mock implementation of amzscrape.ProductWriter.
type ProductWriter struct {
	WriteProductFn func(ctx context.Context, rec *amzscrape.ProductRecord) error
}

func (w *ProductWriter) WriteProduct(ctx context.Context, rec *amzscrape.ProductRecord) error {
	return w.WriteProductFn(ctx, rec)
}

var _ amzscrape.ProductStore = (*ProductStore)(nil)

// ProductStore is a mock implementation of amzscrape.ProductStore.
type ProductStore struct {
	SaveFn   func(ctx context.Context, rec *amzscrape.ProductRecord) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *ProductStore) Save(ctx context.Context, rec *amzscrape.ProductRecord) error {
	return s.SaveFn(ctx, rec)
}

func (s *ProductStore) Commit() error {
	return s.CommitFn()
}

func (s *ProductStore) Abort() error {
	return s.AbortFn()
}
