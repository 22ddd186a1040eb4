package storage

import (
	"context"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/ddl"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

// Store is a Repository without lifecycle: what a backend package
// implements on its own connection type.
type Store interface {
	// QueryRecords returns the records matching f in log order.
	QueryRecords(ctx context.Context, f records.Filter) ([]records.RawRecord, error)
	// CopyFrom bulk-inserts rows aligned to columns and returns the number
	// of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Exec runs a statement, typically DDL.
	Exec(ctx context.Context, sql string) error
}

// Opener opens a backend store and returns the function that releases it.
type Opener[S Store] func(ctx context.Context, cfg Config) (S, func(), error)

// RegisterBackend registers a backend kind: its opener as the factory for
// New and its dialect for EnsureTable.
func RegisterBackend[S Store](kind string, d ddl.Dialect, open Opener[S]) {
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		s, closeFn, err := open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return WithClose(s, closeFn), nil
	})
	RegisterDDL(kind, d)
}

// WithClose turns s into a Repository whose Close calls closeFn once.
// A nil closeFn makes Close a no-op.
func WithClose(s Store, closeFn func()) Repository {
	return &ownedStore{Store: s, closeFn: closeFn}
}

type ownedStore struct {
	Store
	closeFn func()
}

func (o *ownedStore) Close() {
	if o.closeFn != nil {
		o.closeFn()
		o.closeFn = nil
	}
}
