package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/intake/internal/model"
	"github.com/alfredjeanlab/intake/internal/store"
)

// Source pairs a collection definition with the store holding its records.
type Source struct {
	Collection model.Collection
	Store      store.Store
}

// header is the first JSONL record written by WriteJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Collections []string  `json:"collections"`
	RecordCount int       `json:"record_count"`
}

// line wraps a single JSONL line with a type discriminator.
type line struct {
	Type       string        `json:"type"`
	Collection string        `json:"collection,omitempty"`
	Data       *model.Record `json:"data,omitempty"`
}

// WriteJSONL writes a full snapshot of all sources as JSONL to w: a header
// line followed by one line per record, in collection order, newest first
// within each collection.
func WriteJSONL(ctx context.Context, sources []Source, w io.Writer) error {
	type loaded struct {
		name    string
		records []*model.Record
	}
	all := make([]loaded, 0, len(sources))
	names := make([]string, 0, len(sources))
	total := 0
	for _, src := range sources {
		records, err := src.Store.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", src.Collection.Name, err)
		}
		all = append(all, loaded{name: src.Collection.Name, records: records})
		names = append(names, src.Collection.Name)
		total += len(records)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:     "1",
		Type:        "header",
		Timestamp:   time.Now().UTC(),
		Collections: names,
		RecordCount: total,
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, col := range all {
		for _, record := range col.records {
			if err := enc.Encode(line{Type: "record", Collection: col.name, Data: record}); err != nil {
				return fmt.Errorf("encode record %s: %w", record.ID, err)
			}
		}
	}
	return nil
}
