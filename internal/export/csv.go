// Package export serializes collections for external consumption: CSV for
// spreadsheet tooling, JSONL snapshots for backups, with an optional
// S3-compatible destination and a periodic sync scheduler.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/alfredjeanlab/intake/internal/model"
)

// Template is one collection's CSV contract: the exact column order and the
// download filename. Spreadsheet import templates depend on the column order,
// so columns are never dropped or reordered relative to it.
type Template struct {
	Columns  []string `toml:"columns"`
	Filename string   `toml:"filename"`
}

// DefaultTemplate returns the collection's built-in CSV contract.
func DefaultTemplate(c model.Collection) Template {
	return Template{
		Columns:  append([]string(nil), c.ExportColumns...),
		Filename: c.ExportFilename,
	}
}

// WriteCSV writes the rows restricted to the given columns, in order. Every
// cell — header included — is double-quoted with interior quotes doubled, so
// commas, quotes, and newlines inside values never break the row structure.
// Missing fields render as empty cells. Rows are joined with \n.
func WriteCSV(w io.Writer, columns []string, rows []*model.Record) error {
	if len(columns) == 0 {
		return fmt.Errorf("csv export: no columns")
	}

	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = quote(col)
	}
	if _, err := io.WriteString(w, strings.Join(cells, ",")); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}

	for _, row := range rows {
		for i, col := range columns {
			cells[i] = quote(row.Field(col))
		}
		if _, err := io.WriteString(w, "\n"+strings.Join(cells, ",")); err != nil {
			return fmt.Errorf("csv export: %w", err)
		}
	}
	return nil
}

// CSVString renders the rows as a CSV document in memory.
func CSVString(columns []string, rows []*model.Record) (string, error) {
	var b strings.Builder
	if err := WriteCSV(&b, columns, rows); err != nil {
		return "", err
	}
	return b.String(), nil
}

// quote wraps a value in double quotes, doubling any interior quotes
// (RFC 4180 escaping, applied unconditionally).
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
