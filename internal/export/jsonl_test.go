package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/alfredjeanlab/intake/internal/kv"
	"github.com/alfredjeanlab/intake/internal/model"
	"github.com/alfredjeanlab/intake/internal/store"
)

func testSources(t *testing.T) []Source {
	t.Helper()
	backend := kv.NewMemory()
	ctx := context.Background()

	careers := store.ForCollection(backend, model.Careers)
	regs := store.ForCollection(backend, model.Registrations)

	if _, err := store.Create(ctx, careers, model.Careers, map[string]any{"fullName": "Jo"}); err != nil {
		t.Fatalf("seed career: %v", err)
	}
	for _, name := range []string{"Aline K.", "Eric N."} {
		if _, err := store.Create(ctx, regs, model.Registrations, map[string]any{"fullName": name}); err != nil {
			t.Fatalf("seed registration: %v", err)
		}
	}

	return []Source{
		{Collection: model.Careers, Store: careers},
		{Collection: model.Registrations, Store: regs},
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONL(context.Background(), testSources(t), &buf); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var lines []map[string]any
	for scanner.Scan() {
		obj := map[string]any{}
		if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
			t.Fatalf("line %d is not JSON: %v", len(lines), err)
		}
		lines = append(lines, obj)
	}

	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3 records", len(lines))
	}
	if lines[0]["type"] != "header" || lines[0]["record_count"] != float64(3) {
		t.Errorf("header = %v", lines[0])
	}
	if lines[1]["collection"] != "careers" {
		t.Errorf("line 1 collection = %v", lines[1]["collection"])
	}
	// Registrations follow, newest first.
	data := lines[2]["data"].(map[string]any)
	if data["fullName"] != "Eric N." {
		t.Errorf("first registration = %v, want newest", data["fullName"])
	}
}

type captureDestination struct {
	mu    sync.Mutex
	names []string
	types []string
	data  [][]byte
	err   error
}

func (d *captureDestination) Write(_ context.Context, name, contentType string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names = append(d.names, name)
	d.types = append(d.types, contentType)
	d.data = append(d.data, data)
	return d.err
}

func (d *captureDestination) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.data)
}

func TestScheduler_SyncOnce(t *testing.T) {
	dest := &captureDestination{}
	s := NewScheduler(testSources(t), []Destination{dest}, 0, discardLogger())

	s.SyncOnce(context.Background())

	if len(dest.data) != 1 {
		t.Fatalf("writes = %d, want 1", len(dest.data))
	}
	if dest.names[0] != "intake-backup.jsonl" || dest.types[0] != "application/x-ndjson" {
		t.Errorf("wrote %s as %s", dest.names[0], dest.types[0])
	}
	if !strings.Contains(string(dest.data[0]), `"type":"header"`) {
		t.Error("snapshot missing header line")
	}
}
