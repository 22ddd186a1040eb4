package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/ddl"
)

var (
	ddlMu    sync.RWMutex
	dialects = map[string]ddl.Dialect{}
)

// RegisterDDL registers (or replaces) the DDL dialect for a storage kind.
func RegisterDDL(kind string, d ddl.Dialect) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	dialects[kind] = d
}

// DialectFor returns the registered dialect of kind.
func DialectFor(kind string) (ddl.Dialect, bool) {
	ddlMu.RLock()
	defer ddlMu.RUnlock()
	d, ok := dialects[kind]
	return d, ok
}

// EnsureTable creates the rejection-log table through repo when it does not
// exist yet.
func EnsureTable(ctx context.Context, kind, table string, repo Repository) error {
	d, ok := DialectFor(kind)
	if !ok {
		return fmt.Errorf("no DDL dialect registered for storage.kind=%q", kind)
	}
	stmt, err := ddl.BuildCreateTableSQL(ddl.RecordsTable(table, d), d)
	if err != nil {
		return fmt.Errorf("build DDL: %w", err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("apply DDL: %w", err)
	}
	return nil
}
