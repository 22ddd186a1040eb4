// Package postgres implements the rejection log on Postgres with pgx v5.
// Appends use COPY; reads go through the pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN   string // connection string for pgxpool
	Table string // e.g. "public.registros_rechazo"
}

// Repository is a Postgres-backed storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, pool.Close, nil
}

func castText(col string) string { return col + "::text" }

// QueryRecords returns the records matching f in insertion order.
func (r *Repository) QueryRecords(ctx context.Context, f records.Filter) ([]records.RawRecord, error) {
	q, args := storage.SelectRecordsSQL(r.cfg.Table, Dialect, storage.Dollar, castText, f)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query records: %w", err)
	}
	defer rows.Close()

	var out []records.RawRecord
	for rows.Next() {
		rec, err := storage.ScanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: query records: %w", err)
	}
	return f.Apply(out), nil
}

// CopyFrom streams rows into the table with COPY.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	converted, err := copyRows(rows)
	if err != nil {
		return 0, err
	}
	n, err := r.pool.CopyFrom(ctx, splitFQN(r.cfg.Table), columns, pgx.CopyFromRows(converted))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return n, fmt.Errorf("postgres: copy: %s (%s)", pgErr.Detail, pgErr.SQLState())
		}
		return n, fmt.Errorf("postgres: copy: %w", err)
	}
	return n, nil
}

// copyRows converts decimal quantities to pgtype.Numeric so COPY's binary
// encoding can write them.
func copyRows(rows [][]any) ([][]any, error) {
	out := make([][]any, len(rows))
	for i, row := range rows {
		conv := make([]any, len(row))
		for j, v := range row {
			d, ok := v.(decimal.Decimal)
			if !ok {
				conv[j] = v
				continue
			}
			var n pgtype.Numeric
			if err := n.Scan(d.String()); err != nil {
				return nil, fmt.Errorf("postgres: row %d: numeric %s: %w", i, d, err)
			}
			conv[j] = n
		}
		out[i] = conv
	}
	return out, nil
}

// splitFQN converts "schema.table" into a pgx.Identifier.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}

// Exec runs a statement against the pool.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}
