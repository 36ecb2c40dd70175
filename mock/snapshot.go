package mock

import (
	"context"

	"github.com/fwojciec/amzscrape"
)

var _ amzscrape.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of amzscrape.SnapshotService.
type SnapshotService struct {
	CreateSnapshotFn   func(ctx context.Context, snapshot *amzscrape.Snapshot) error
	FindSnapshotByIDFn func(ctx context.Context, id string) (*amzscrape.Snapshot, error)
	FindSnapshotsFn    func(ctx context.Context, filter amzscrape.SnapshotFilter) ([]*amzscrape.Snapshot, error)
}

func (s *SnapshotService) CreateSnapshot(ctx context.Context, snapshot *amzscrape.Snapshot) error {
	return s.CreateSnapshotFn(ctx, snapshot)
}

func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*amzscrape.Snapshot, error) {
	return s.FindSnapshotByIDFn(ctx, id)
}

func (s *SnapshotService) FindSnapshots(ctx context.Context, filter amzscrape.SnapshotFilter) ([]*amzscrape.Snapshot, error) {
	return s.FindSnapshotsFn(ctx, filter)
}
