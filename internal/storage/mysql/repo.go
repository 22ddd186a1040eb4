// Package mysql implements the rejection log on MySQL with
// go-sql-driver/mysql. Appends use multi-row INSERT statements.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage"
)

// maxPlaceholders keeps one INSERT under MySQL's 65535 bind-parameter limit.
const maxPlaceholders = 60000

// Config holds MySQL repository configuration.
type Config struct {
	DSN   string // e.g. "user:pass@tcp(localhost:3306)/scrap?parseTime=true"
	Table string
}

// Repository is a MySQL-backed storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository validates the DSN, connects and returns a Close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := driver.ParseDSN(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	db, err := sql.Open("mysql", cfg.DSN)
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
	q, args := storage.SelectRecordsSQL(r.cfg.Table, Dialect, storage.QuestionMark, nil, f)
	out, err := storage.QueryDB(r.db.QueryContext(ctx, q, args...))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return f.Apply(out), nil
}

// CopyFrom inserts rows with as few multi-row INSERTs as the placeholder
// limit allows, in one transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("CopyFrom: columns must not be empty")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	var inserted int64
	for _, chunk := range chunkRows(rows, maxPlaceholders/len(columns)) {
		q, args, err := multiInsert(r.cfg.Table, columns, chunk)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func chunkRows(rows [][]any, size int) [][][]any {
	if size < 1 {
		size = 1
	}
	var out [][][]any
	for len(rows) > size {
		out = append(out, rows[:size])
		rows = rows[size:]
	}
	return append(out, rows)
}

// multiInsert builds INSERT INTO t (cols) VALUES (?,..),(?,..) for rows.
func multiInsert(table string, columns []string, rows [][]any) (string, []any, error) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = Dialect.QuoteIdent(c)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", Dialect.QuoteFQN(table), strings.Join(quoted, ", "))
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("CopyFrom: row %d length %d != columns length %d", i, len(row), len(columns))
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(tuple)
		args = append(args, row...)
	}
	return sb.String(), args, nil
}

// Exec runs a statement.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}
