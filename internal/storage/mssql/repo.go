// Package mssql implements the rejection log on SQL Server. Appends use the
// go-mssqldb bulk copy API directly into the target table.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"
	"github.com/shopspring/decimal"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN   string
	Table string
}

// Repository is an MSSQL-backed storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository validates the DSN, connects and returns a Close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// QueryRecords returns the records matching f in insertion order.
func (r *Repository) QueryRecords(ctx context.Context, f records.Filter) ([]records.RawRecord, error) {
	q, args := storage.SelectRecordsSQL(r.cfg.Table, Dialect, storage.AtP, nil, f)
	out, err := storage.QueryDB(r.db.QueryContext(ctx, q, args...))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return f.Apply(out), nil
}

// CopyFrom bulk-inserts rows into the configured table in one transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(r.cfg.Table, mssql.BulkOptions{}, columns...))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, bulkValues(rows[i])...); err != nil {
			_ = stmt.Close()
			rollback()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		rollback()
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		rollback()
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// bulkValues converts decimals to float64, which the bulk copy encoder
// accepts for DECIMAL columns.
func bulkValues(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if d, ok := v.(decimal.Decimal); ok {
			out[i] = d.InexactFloat64()
			continue
		}
		out[i] = v
	}
	return out
}

// Exec runs a statement.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}
