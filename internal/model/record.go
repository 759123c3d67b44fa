package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Reserved field names managed by the store. Everything else on a record is a
// caller-supplied domain field (name, email, phone, service selections, ...).
const (
	FieldID            = "id"
	FieldCreatedAt     = "createdAt"
	FieldUpdatedAt     = "updatedAt"
	FieldStatus        = "status"
	FieldPaymentStatus = "paymentStatus"
)

// Record is one submitted request: a career-guidance inquiry or an
// English-test registration. The envelope fields (id, timestamps, statuses)
// are managed by the store; domain fields are set at creation and flattened
// into the same JSON object on the wire and in storage.
type Record struct {
	ID            string
	CreatedAt     time.Time
	UpdatedAt     time.Time // zero until the first patch is applied
	Status        Status
	PaymentStatus PaymentStatus
	Fields        map[string]any
}

// Field returns the string form of a field by name, covering both envelope
// and domain fields. Missing fields yield "". This is the lookup used by CSV
// export and substring filtering, so its formatting is part of the export
// contract.
func (r *Record) Field(name string) string {
	switch name {
	case FieldID:
		return r.ID
	case FieldCreatedAt:
		if r.CreatedAt.IsZero() {
			return ""
		}
		return r.CreatedAt.UTC().Format(time.RFC3339)
	case FieldUpdatedAt:
		if r.UpdatedAt.IsZero() {
			return ""
		}
		return r.UpdatedAt.UTC().Format(time.RFC3339)
	case FieldStatus:
		return string(r.Status)
	case FieldPaymentStatus:
		return string(r.PaymentStatus)
	}
	return stringify(r.Fields[name])
}

// SetField sets a domain field, allocating the map on first use. Envelope
// fields cannot be set this way; use the typed struct members.
func (r *Record) SetField(name string, value any) {
	switch name {
	case FieldID, FieldCreatedAt, FieldUpdatedAt, FieldStatus, FieldPaymentStatus:
		return
	}
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[name] = value
}

// FieldNames returns the record's domain field names in sorted order.
func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := *r
	if r.Fields != nil {
		out.Fields = make(map[string]any, len(r.Fields))
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
	}
	return &out
}

// ApplyPatch merges a partial update into the record. Status and
// paymentStatus patch their typed fields; id and timestamps are immutable and
// silently skipped; anything else lands in the domain fields. The caller is
// responsible for stamping UpdatedAt.
func (r *Record) ApplyPatch(patch map[string]any) {
	for name, value := range patch {
		switch name {
		case FieldID, FieldCreatedAt, FieldUpdatedAt:
			continue
		case FieldStatus:
			r.Status = Status(stringify(value))
		case FieldPaymentStatus:
			r.PaymentStatus = PaymentStatus(stringify(value))
		default:
			r.SetField(name, value)
		}
	}
}

// MarshalJSON flattens the record into a single JSON object: envelope fields
// alongside domain fields, which is the shape persisted under the namespace
// key and returned by the API.
func (r *Record) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(r.Fields)+5)
	for k, v := range r.Fields {
		obj[k] = v
	}
	obj[FieldID] = r.ID
	obj[FieldStatus] = string(r.Status)
	if !r.CreatedAt.IsZero() {
		obj[FieldCreatedAt] = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !r.UpdatedAt.IsZero() {
		obj[FieldUpdatedAt] = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if r.PaymentStatus != "" {
		obj[FieldPaymentStatus] = string(r.PaymentStatus)
	}
	return json.Marshal(obj)
}

// UnmarshalJSON is the inverse of MarshalJSON. Unparsable timestamps are left
// zero rather than failing the whole collection load.
func (r *Record) UnmarshalJSON(data []byte) error {
	obj := make(map[string]any)
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = Record{}
	for name, value := range obj {
		switch name {
		case FieldID:
			r.ID = stringify(value)
		case FieldStatus:
			r.Status = Status(stringify(value))
		case FieldPaymentStatus:
			r.PaymentStatus = PaymentStatus(stringify(value))
		case FieldCreatedAt:
			r.CreatedAt = parseTime(value)
		case FieldUpdatedAt:
			r.UpdatedAt = parseTime(value)
		default:
			r.SetField(name, value)
		}
	}
	return nil
}

func parseTime(value any) time.Time {
	s, ok := value.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// stringify renders a JSON-decoded value as a plain string. Numbers drop the
// trailing ".0" that float64 round-tripping would otherwise introduce, so
// amountUSD=300 exports as "300".
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
