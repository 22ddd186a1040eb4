package report

import (
	"context"
	"fmt"
	"time"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/config"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/datasource"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/logger"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/metrics"
	csvparser "github.com/JosueFrayreGarcia777/ScrapSystem/internal/parser/csv"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage"
)

// Loader returns the raw records a report is built from. Implementations
// may narrow by f; the Service applies f again regardless.
type Loader interface {
	Load(ctx context.Context, f records.Filter) ([]records.RawRecord, error)
}

// StreamLoader parses a CSV export from a byte source.
type StreamLoader struct {
	Source  datasource.Source
	Options csvparser.Options
	Log     *logger.Logger
	Job     string
}

// Load reads the whole export. Soft parse problems are logged at debug
// level and counted; they never fail the load.
func (l *StreamLoader) Load(ctx context.Context, _ records.Filter) ([]records.RawRecord, error) {
	lg := l.Log
	if lg == nil {
		lg = logger.Nop()
	}
	rc, err := l.Source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	recs, st, err := csvparser.ReadAll(ctx, rc, l.Options, func(line int, err error) {
		lg.Debug("record skipped or defaulted", "line", line, "err", err)
	})
	metrics.RecordRow(l.Job, "parse_errors", int64(st.ParseErrors))
	metrics.RecordRow(l.Job, "anomalies", int64(st.Anomalies))
	if err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	if st.ParseErrors > 0 || st.Anomalies > 0 {
		lg.Info("source had soft errors", "rows", st.Rows, "parse_errors", st.ParseErrors, "anomalies", st.Anomalies)
	}
	return recs, nil
}

// RepoLoader reads from a storage backend with filter pushdown.
type RepoLoader struct {
	Repo storage.Repository
}

// Load implements Loader.
func (l *RepoLoader) Load(ctx context.Context, f records.Filter) ([]records.RawRecord, error) {
	return l.Repo.QueryRecords(ctx, f)
}

// NewLoader builds the Loader selected by cfg.Source.Kind. The returned
// close function releases any storage connection and is never nil.
func NewLoader(ctx context.Context, cfg *config.Config, lg *logger.Logger) (Loader, func(), error) {
	if cfg.Source.Kind == "db" {
		start := time.Now()
		repo, err := storage.New(ctx, storage.Config{
			Kind:  cfg.Storage.Kind,
			DSN:   cfg.Storage.DB.DSN,
			Table: cfg.Storage.DB.Table,
		})
		metrics.RecordStep(cfg.Job, "connect", err, time.Since(start))
		if err != nil {
			return nil, func() {}, err
		}
		return &RepoLoader{Repo: repo}, repo.Close, nil
	}

	src, err := datasource.New(cfg.Source)
	if err != nil {
		return nil, func() {}, err
	}
	return &StreamLoader{
		Source:  src,
		Options: csvparser.OptionsFrom(cfg.Parser.Options),
		Log:     lg,
		Job:     cfg.Job,
	}, func() {}, nil
}
