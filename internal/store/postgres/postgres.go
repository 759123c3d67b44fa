// Package postgres implements the store.Store interface on PostgreSQL, one
// row per record instead of one blob per collection. This is the backend for
// multi-user server deployments: updates are transactional and row-granular,
// so concurrent writers cannot clobber each other's submissions.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/intake/internal/model"
	"github.com/alfredjeanlab/intake/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the shared database handle. Collection-bound stores are derived
// from it via Records.
type DB struct {
	db *sql.DB
}

// Open connects to the database at the given URL, configures the pool, and
// runs any pending migrations.
func Open(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DB{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Records returns a store bound to one collection's rows.
func (d *DB) Records(c model.Collection) *RecordStore {
	return &RecordStore{db: d.db, collection: c.Key}
}

// RecordStore implements store.Store for one collection.
type RecordStore struct {
	db         *sql.DB
	collection string
}

// Compile-time check that RecordStore implements store.Store.
var _ store.Store = (*RecordStore)(nil)

func (s *RecordStore) LoadAll(ctx context.Context) ([]*model.Record, error) {
	return queryLoadAll(ctx, s.db, s.collection)
}

// SaveAll replaces the collection atomically: delete plus re-insert in one
// transaction. Rows are inserted tail-first so the head of the slice gets the
// highest sequence number and stays first on load.
func (s *RecordStore) SaveAll(ctx context.Context, records []*model.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := queryClear(ctx, tx, s.collection); err != nil {
		return err
	}
	for i := len(records) - 1; i >= 0; i-- {
		if err := queryInsert(ctx, tx, s.collection, records[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *RecordStore) Insert(ctx context.Context, record *model.Record) error {
	return queryInsert(ctx, s.db, s.collection, record)
}

// UpdateByID locks the newest matching row, applies the patch, and writes it
// back in one transaction. A miss returns (nil, nil).
func (s *RecordStore) UpdateByID(ctx context.Context, id string, patch map[string]any) (*model.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	seq, record, err := queryFindForUpdate(ctx, tx, s.collection, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	record.ApplyPatch(patch)
	record.UpdatedAt = time.Now().UTC()

	if err := queryUpdate(ctx, tx, seq, record); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return record, nil
}

func (s *RecordStore) FindByID(ctx context.Context, id string) (*model.Record, error) {
	return queryFindByID(ctx, s.db, s.collection, id)
}

func (s *RecordStore) ClearAll(ctx context.Context) error {
	return queryClear(ctx, s.db, s.collection)
}

// Close is a no-op; the DB handle owns the connection pool.
func (s *RecordStore) Close() error { return nil }
