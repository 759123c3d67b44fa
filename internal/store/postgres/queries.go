package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/intake/internal/model"
)

// recordColumns is the column list used for SELECT statements on the records table.
const recordColumns = `id, created_at, updated_at, status, payment_status, fields`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryLoadAll(ctx context.Context, db executor, collection string) ([]*model.Record, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE collection = $1 ORDER BY seq DESC`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	defer rows.Close()

	records := []*model.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	return records, nil
}

func queryInsert(ctx context.Context, db executor, collection string, r *model.Record) error {
	fields, err := marshalFields(r)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO records (collection, id, created_at, updated_at, status, payment_status, fields)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		collection,
		r.ID,
		r.CreatedAt,
		nullTime(r.UpdatedAt),
		string(r.Status),
		string(r.PaymentStatus),
		fields,
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.ID, err)
	}
	return nil
}

func queryFindByID(ctx context.Context, db executor, collection, id string) (*model.Record, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records
		 WHERE collection = $1 AND id = $2 ORDER BY seq DESC LIMIT 1`,
		collection, id,
	)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", id, err)
	}
	return record, nil
}

// queryFindForUpdate locks the newest row matching id and returns its seq.
// Returns (0, nil, nil) when no row matches.
func queryFindForUpdate(ctx context.Context, db executor, collection, id string) (int64, *model.Record, error) {
	row := db.QueryRowContext(ctx,
		`SELECT seq, `+recordColumns+` FROM records
		 WHERE collection = $1 AND id = $2 ORDER BY seq DESC LIMIT 1 FOR UPDATE`,
		collection, id,
	)
	var seq int64
	record, err := scanRecordSeq(row, &seq)
	if err == sql.ErrNoRows {
		return 0, nil, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("find for update %s: %w", id, err)
	}
	return seq, record, nil
}

func queryUpdate(ctx context.Context, db executor, seq int64, r *model.Record) error {
	fields, err := marshalFields(r)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		UPDATE records SET updated_at = $1, status = $2, payment_status = $3, fields = $4
		WHERE seq = $5`,
		nullTime(r.UpdatedAt),
		string(r.Status),
		string(r.PaymentStatus),
		fields,
		seq,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.ID, err)
	}
	return nil
}

func queryClear(ctx context.Context, db executor, collection string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM records WHERE collection = $1`, collection); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}

func marshalFields(r *model.Record) ([]byte, error) {
	fields := r.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal fields for %s: %w", r.ID, err)
	}
	return data, nil
}
