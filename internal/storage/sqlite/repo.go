// Package sqlite implements the rejection log on SQLite using database/sql
// and the pure-Go modernc driver. Inserts run as a prepared statement inside
// one transaction per batch.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage"
)

// Config holds SQLite repository configuration.
type Config struct {
	// DSN is a file path or URI, e.g. "file:scrap.db?_pragma=busy_timeout(5000)".
	DSN string
	// Table may be schema-qualified ("main.registros").
	Table string
}

// Repository is a SQLite-backed storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens and pings the database and returns the repository with
// its cleanup function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and avoids
	// SQLITE_BUSY between writers.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { db.Close() }, nil
}

// QueryRecords returns the records matching f in insertion order.
func (r *Repository) QueryRecords(ctx context.Context, f records.Filter) ([]records.RawRecord, error) {
	q, args := storage.SelectRecordsSQL(r.cfg.Table, Dialect, storage.QuestionMark, nil, f)
	out, err := storage.QueryDB(r.db.QueryContext(ctx, q, args...))
	if err != nil {
		return nil, fmt.Errorf("sqlite: query records: %w", err)
	}
	return f.Apply(out), nil
}

// CopyFrom inserts rows in one transaction. Every row must have
// len(columns) values.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, storage.InsertSQL(r.cfg.Table, Dialect, storage.QuestionMark, columns))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Exec runs a statement, typically DDL.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}
