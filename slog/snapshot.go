package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/amzscrape"
)

// Ensure LoggingSnapshotService implements amzscrape.SnapshotService.
var _ amzscrape.SnapshotService = (*LoggingSnapshotService)(nil)

// LoggingSnapshotService wraps a SnapshotService with operation logging.
type LoggingSnapshotService struct {
	next   amzscrape.SnapshotService
	logger *slog.Logger
}

// NewLoggingSnapshotService creates a new LoggingSnapshotService.
func NewLoggingSnapshotService(next amzscrape.SnapshotService, logger *slog.Logger) *LoggingSnapshotService {
	return &LoggingSnapshotService{next: next, logger: logger}
}

// CreateSnapshot delegates to the wrapped service.
func (s *LoggingSnapshotService) CreateSnapshot(ctx context.Context, snapshot *amzscrape.Snapshot) (err error) {
	defer func(begin time.Time) {
		var id, productID string
		if snapshot != nil {
			id, productID = snapshot.ID, snapshot.ProductID
		}
		logOp(ctx, s.logger, "create snapshot", begin, err,
			slog.String("id", id),
			slog.String("product_id", productID),
		)
	}(time.Now())
	return s.next.CreateSnapshot(ctx, snapshot)
}

// FindSnapshotByID delegates to the wrapped service.
func (s *LoggingSnapshotService) FindSnapshotByID(ctx context.Context, id string) (snapshot *amzscrape.Snapshot, err error) {
	defer func(begin time.Time) {
		logOp(ctx, s.logger, "find snapshot", begin, err, slog.String("id", id))
	}(time.Now())
	return s.next.FindSnapshotByID(ctx, id)
}

// FindSnapshots delegates to the wrapped service.
func (s *LoggingSnapshotService) FindSnapshots(ctx context.Context, filter amzscrape.SnapshotFilter) (snapshots []*amzscrape.Snapshot, err error) {
	defer func(begin time.Time) {
		productID := ""
		if filter.ProductID != nil {
			productID = *filter.ProductID
		}
		logOp(ctx, s.logger, "find snapshots", begin, err,
			slog.String("product_id", productID),
			slog.Int("count", len(snapshots)),
		)
	}(time.Now())
	return s.next.FindSnapshots(ctx, filter)
}
