// Package storage holds the rejection log in a SQL backend.
//
// Backends register a factory and a DDL dialect for their kind at init time
// (see storage/all). Callers open a Repository with New and stay
// backend-agnostic.
package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Repository reads and appends rejection-log records.
type Repository interface {
	Store
	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind  string
	DSN   string
	Table string
}

// Factory opens a Repository for a backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository of cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
