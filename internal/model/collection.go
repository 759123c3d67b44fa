package model

import "strings"

// Collection describes one record collection: where it persists, how its ids
// look, which defaults new records get, and its CSV export contract.
type Collection struct {
	// Name is the short identifier used in URLs and CLI flags.
	Name string
	// Key is the namespace key the whole collection serializes under.
	Key string
	// IDPrefix is prepended to generated reference numbers.
	IDPrefix string
	// InitialStatus is stamped onto newly created records.
	InitialStatus Status
	// DefaultPaymentStatus is stamped onto new records when non-empty.
	DefaultPaymentStatus PaymentStatus
	// DisplayFields are the fields substring filtering matches against.
	DisplayFields []string
	// ExportColumns is the default CSV column order. Spreadsheet import
	// templates depend on this exact order.
	ExportColumns []string
	// ExportFilename is the default CSV download filename.
	ExportFilename string
}

// The two built-in collections.
var (
	Careers = Collection{
		Name:          "careers",
		Key:           "intake_career_guidance_requests_v1",
		IDPrefix:      "CGR",
		InitialStatus: StatusNew,
		DisplayFields: []string{"fullName", "email", "phone", "service"},
		ExportColumns: []string{
			"id", "createdAt", "status",
			"fullName", "email", "phone", "service", "message",
		},
		ExportFilename: "career-guidance.csv",
	}

	Registrations = Collection{
		Name:                 "registrations",
		Key:                  "intake_english_registrations_v1",
		IDPrefix:             "ENG",
		InitialStatus:        StatusPendingPayment,
		DefaultPaymentStatus: PaymentUnpaid,
		DisplayFields:        []string{"fullName", "email", "phone", "test", "plan"},
		ExportColumns: []string{
			"id", "createdAt", "status", "paymentStatus",
			"fullName", "email", "phone", "test", "plan",
			"examDate", "paymentMethod", "amountUSD",
		},
		ExportFilename: "english_test_registrations.csv",
	}
)

// Collections lists the built-in collections in a stable order.
func Collections() []Collection {
	return []Collection{Careers, Registrations}
}

// CollectionByName looks up a built-in collection; ok is false for unknown names.
func CollectionByName(name string) (Collection, bool) {
	for _, c := range Collections() {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}

// Filter holds list criteria shared by the CLI and HTTP API.
type Filter struct {
	// Search is matched case-insensitively as a substring against the
	// collection's display fields plus the record id.
	Search string
	Status Status
	Limit  int
}

// Matches reports whether the record passes the filter, using the
// collection's display fields for the substring search.
func (f Filter) Matches(c Collection, r *Record) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(r.ID), needle) {
		return true
	}
	for _, field := range c.DisplayFields {
		if strings.Contains(strings.ToLower(r.Field(field)), needle) {
			return true
		}
	}
	return false
}

// Apply filters records, preserving order and honoring Limit (0 = no limit).
func (f Filter) Apply(c Collection, records []*Record) []*Record {
	out := make([]*Record, 0, len(records))
	for _, r := range records {
		if !f.Matches(c, r) {
			continue
		}
		out = append(out, r)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}
