package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/alfredjeanlab/intake/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.Record, error) {
	var (
		r             model.Record
		updatedAt     sql.NullTime
		status        string
		paymentStatus string
		fields        []byte
	)
	if err := row.Scan(&r.ID, &r.CreatedAt, &updatedAt, &status, &paymentStatus, &fields); err != nil {
		return nil, err
	}
	finishScan(&r, updatedAt, status, paymentStatus, fields)
	return &r, nil
}

func scanRecordSeq(row rowScanner, seq *int64) (*model.Record, error) {
	var (
		r             model.Record
		updatedAt     sql.NullTime
		status        string
		paymentStatus string
		fields        []byte
	)
	if err := row.Scan(seq, &r.ID, &r.CreatedAt, &updatedAt, &status, &paymentStatus, &fields); err != nil {
		return nil, err
	}
	finishScan(&r, updatedAt, status, paymentStatus, fields)
	return &r, nil
}

func finishScan(r *model.Record, updatedAt sql.NullTime, status, paymentStatus string, fields []byte) {
	if updatedAt.Valid {
		r.UpdatedAt = updatedAt.Time.UTC()
	}
	r.CreatedAt = r.CreatedAt.UTC()
	r.Status = model.Status(status)
	r.PaymentStatus = model.PaymentStatus(paymentStatus)
	if len(fields) > 0 {
		// fields is always a JSON object written by this package.
		_ = json.Unmarshal(fields, &r.Fields)
	}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
