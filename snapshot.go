package amzscrape

import (
	"context"
	"time"
)

// Snapshot is a product record observed at a point in time.
type Snapshot struct {
	ID        string         `json:"id"`
	ProductID string         `json:"productId"`
	SourceURL string         `json:"sourceUrl"`
	PageHash  string         `json:"pageHash"`
	Record    *ProductRecord `json:"record"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.Record == nil {
		return Errorf(EINVALID, "snapshot record required")
	}
	if err := s.Record.Validate(); err != nil {
		return err
	}
	if s.ProductID != "" && s.ProductID != s.Record.ID {
		return Errorf(EINVALID, "snapshot product id %q does not match record id %q", s.ProductID, s.Record.ID)
	}
	if s.SourceURL == "" {
		return Errorf(EINVALID, "snapshot source URL required")
	}
	return nil
}

// SnapshotService represents a service for recording product history.
type SnapshotService interface {
	// CreateSnapshot stores a new snapshot. ID, ProductID and FetchedAt
	// are filled in when empty.
	CreateSnapshot(ctx context.Context, snapshot *Snapshot) error

	// FindSnapshotByID retrieves a snapshot by ID.
	// Returns ENOTFOUND if the snapshot does not exist.
	FindSnapshotByID(ctx context.Context, id string) (*Snapshot, error)

	// FindSnapshots retrieves snapshots matching the filter, newest first.
	FindSnapshots(ctx context.Context, filter SnapshotFilter) ([]*Snapshot, error)
}

// SnapshotFilter represents a filter for FindSnapshots.
type SnapshotFilter struct {
	ProductID *string `json:"productId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
