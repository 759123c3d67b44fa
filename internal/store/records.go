package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/alfredjeanlab/intake/internal/kv"
	"github.com/alfredjeanlab/intake/internal/model"
)

// RecordStore persists a collection as one JSON array under a single
// namespace key in a kv.Store. Every mutation is read-modify-write over the
// whole collection; a mutex serializes mutations so there is exactly one
// writer in-process. Cross-process writers are last-writer-wins — deployments
// that need better use the postgres store.
type RecordStore struct {
	kv  kv.Store
	key string

	mu sync.Mutex
}

// Compile-time check that RecordStore implements Store.
var _ Store = (*RecordStore)(nil)

// NewRecordStore returns a store persisting under the given namespace key.
func NewRecordStore(backend kv.Store, key string) *RecordStore {
	return &RecordStore{kv: backend, key: key}
}

// ForCollection returns a store bound to the collection's namespace key.
func ForCollection(backend kv.Store, c model.Collection) *RecordStore {
	return NewRecordStore(backend, c.Key)
}

// LoadAll returns the collection, newest first. Reads never fail: an absent
// key, unreadable backend, unparsable blob, or non-array value all degrade to
// an empty collection. A lead list must render even if the stored blob is
// damaged; the next successful write repairs it.
func (s *RecordStore) LoadAll(ctx context.Context) ([]*model.Record, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil || len(data) == 0 {
		return []*model.Record{}, nil
	}
	var records []*model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return []*model.Record{}, nil
	}
	// A blob like [null] parses fine but yields nil entries; drop them so
	// callers never have to nil-check individual records.
	kept := records[:0]
	for _, r := range records {
		if r != nil {
			kept = append(kept, r)
		}
	}
	if kept == nil {
		kept = []*model.Record{}
	}
	return kept, nil
}

// SaveAll serializes the full collection and replaces the stored blob.
// Write failures propagate; silently dropping a submission would break the
// "your request was received" promise.
func (s *RecordStore) SaveAll(ctx context.Context, records []*model.Record) error {
	if records == nil {
		records = []*model.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal collection %s: %w", s.key, err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save collection %s: %w", s.key, err)
	}
	return nil
}

// Insert prepends the record to the collection.
func (s *RecordStore) Insert(ctx context.Context, record *model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _ := s.LoadAll(ctx)
	records = append([]*model.Record{record}, records...)
	return s.SaveAll(ctx, records)
}

// UpdateByID merges the patch into the first record whose id matches, stamps
// updatedAt, and writes the collection back. All other records are preserved
// in relative order. A miss returns (nil, nil) without writing.
func (s *RecordStore) UpdateByID(ctx context.Context, id string, patch map[string]any) (*model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _ := s.LoadAll(ctx)
	for _, record := range records {
		if record.ID != id {
			continue
		}
		record.ApplyPatch(patch)
		record.UpdatedAt = time.Now().UTC()
		if err := s.SaveAll(ctx, records); err != nil {
			return nil, err
		}
		return record, nil
	}
	return nil, nil
}

// FindByID returns the first record whose id matches, or (nil, nil).
func (s *RecordStore) FindByID(ctx context.Context, id string) (*model.Record, error) {
	records, _ := s.LoadAll(ctx)
	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, nil
}

// ClearAll deletes the namespace key itself, so subsequent loads see an
// absent key rather than an empty array.
func (s *RecordStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear collection %s: %w", s.key, err)
	}
	return nil
}

// Close is a no-op; the kv backend owns its connections.
func (s *RecordStore) Close() error { return nil }
