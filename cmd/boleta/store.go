package main

import (
	"context"
	"time"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/metrics"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage"
)

// openStore connects to the configured storage backend and creates the log
// table when storage.db.auto_create_table is set.
func (a *app) openStore(ctx context.Context) (storage.Repository, error) {
	s := a.cfg.Storage
	start := time.Now()
	repo, err := storage.New(ctx, storage.Config{Kind: s.Kind, DSN: s.DB.DSN, Table: s.DB.Table})
	metrics.RecordStep(a.cfg.Job, "connect", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	if s.DB.AutoCreateTable {
		if err := storage.EnsureTable(ctx, s.Kind, s.DB.Table, repo); err != nil {
			repo.Close()
			return nil, err
		}
	}
	return repo, nil
}

// appendRecords writes recs to repo in one copy.
func (a *app) appendRecords(ctx context.Context, repo storage.Repository, recs []records.RawRecord) (int64, error) {
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = storage.RecordValues(r)
	}
	start := time.Now()
	n, err := repo.CopyFrom(ctx, records.Columns, rows)
	metrics.RecordStep(a.cfg.Job, "insert", err, time.Since(start))
	if err != nil {
		return n, err
	}
	metrics.RecordRow(a.cfg.Job, "inserted", n)
	return n, nil
}
