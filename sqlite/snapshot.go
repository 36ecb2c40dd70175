package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/amzscrape"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ amzscrape.SnapshotService = (*SnapshotService)(nil)

const snapshotColumns = "id, product_id, source_url, page_hash, record, fetched_at"

// SnapshotService implements amzscrape.SnapshotService using SQLite.
type SnapshotService struct {
	db  *DB
	now func() time.Time
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db, now: time.Now}
}

// CreateSnapshot stores a new snapshot, filling in ID, ProductID and
// FetchedAt when empty. FetchedAt is stored in UTC with second precision.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, snapshot *amzscrape.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	if snapshot.ProductID == "" {
		snapshot.ProductID = snapshot.Record.ID
	}
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = s.now()
	}
	snapshot.FetchedAt = snapshot.FetchedAt.UTC().Truncate(time.Second)

	record, err := json.Marshal(snapshot.Record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	rec := snapshot.Record
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, product_id, source_url, page_hash, title, current_price, price_before_discount, rating, record, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, snapshot.ID, snapshot.ProductID, snapshot.SourceURL, snapshot.PageHash,
		nullable(rec.Title), nullable(rec.CurrentPrice), nullable(rec.PriceBeforeDiscount), nullable(rec.Extra.Rating),
		string(record), snapshot.FetchedAt.Format(time.RFC3339))

	return err
}

// FindSnapshotByID retrieves a snapshot by ID.
func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*amzscrape.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+snapshotColumns+" FROM snapshots WHERE id = ?", id)

	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, amzscrape.Errorf(amzscrape.ENOTFOUND, "snapshot not found")
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// FindSnapshots retrieves snapshots matching the filter, newest first.
// Snapshots fetched in the same second are returned in reverse insertion
// order.
func (s *SnapshotService) FindSnapshots(ctx context.Context, filter amzscrape.SnapshotFilter) ([]*amzscrape.Snapshot, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + snapshotColumns + " FROM snapshots WHERE 1=1")

	if filter.ProductID != nil {
		query.WriteString(" AND product_id = ?")
		args = append(args, *filter.ProductID)
	}

	query.WriteString(" ORDER BY fetched_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []*amzscrape.Snapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*amzscrape.Snapshot, error) {
	var snapshot amzscrape.Snapshot
	var record, fetchedAt string

	if err := row.Scan(&snapshot.ID, &snapshot.ProductID, &snapshot.SourceURL,
		&snapshot.PageHash, &record, &fetchedAt); err != nil {
		return nil, err
	}

	var rec amzscrape.ProductRecord
	if err := json.Unmarshal([]byte(record), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	snapshot.Record = &rec

	var err error
	snapshot.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}
