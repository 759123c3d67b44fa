package store

import (
	"context"
	"time"

	"github.com/alfredjeanlab/intake/internal/idgen"
	"github.com/alfredjeanlab/intake/internal/model"
)

// Store is the persistence interface for one record collection.
//
// Ordering is part of the contract: LoadAll returns records most-recent-first,
// and Insert places the new record at the head. Lookup misses are (nil, nil),
// never an error.
type Store interface {
	// LoadAll returns the full collection, newest first.
	LoadAll(ctx context.Context) ([]*model.Record, error)
	// SaveAll replaces the entire collection. A nil slice saves an empty one.
	SaveAll(ctx context.Context, records []*model.Record) error
	// Insert prepends the record. The caller supplies id and createdAt;
	// duplicate ids are not rejected (generated ids make collisions
	// practically impossible, and lookups resolve to the newest match).
	Insert(ctx context.Context, record *model.Record) error
	// UpdateByID merges the patch into the matching record and stamps
	// updatedAt. Returns (nil, nil) when no record matches; storage is left
	// untouched in that case.
	UpdateByID(ctx context.Context, id string, patch map[string]any) (*model.Record, error)
	// FindByID returns the matching record or (nil, nil).
	FindByID(ctx context.Context, id string) (*model.Record, error)
	// ClearAll removes the whole collection.
	ClearAll(ctx context.Context) error

	Close() error
}

// Create materializes a record for the collection from a submitted payload:
// it generates the reference number, stamps createdAt, applies the
// collection's initial statuses, and inserts at the head. The returned record
// is fully formed so callers can show the reference number immediately.
func Create(ctx context.Context, s Store, c model.Collection, payload map[string]any) (*model.Record, error) {
	record := &model.Record{
		ID:            idgen.Generate(c.IDPrefix),
		CreatedAt:     time.Now().UTC(),
		Status:        c.InitialStatus,
		PaymentStatus: c.DefaultPaymentStatus,
	}
	for name, value := range payload {
		record.SetField(name, value)
	}
	if err := s.Insert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
