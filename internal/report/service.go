// Package report builds a boleta: it loads raw records, filters them,
// aggregates them into report rows and lays the rows out on pages.
package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/aggregate"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/layout"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/logger"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/metrics"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

// ErrTooManyRows reports a filtered record set larger than Options.MaxRows.
var ErrTooManyRows = errors.New("report: too many records")

// Result is one built boleta.
type Result struct {
	Filter records.Filter `json:"filter"`
	// Records is the number of raw records after filtering.
	Records         int                 `json:"records"`
	Rows            []records.ReportRow `json:"rows"`
	Pages           []layout.Page       `json:"pages"`
	ComponentsWidth float64             `json:"components_width"`
}

// Empty reports a boleta with nothing to print.
func (r *Result) Empty() bool { return len(r.Rows) == 0 }

// Options configures a Service.
type Options struct {
	Job      string
	Geometry layout.Geometry
	Measurer layout.Measurer
	// MaxRows bounds the filtered record count; zero means no bound.
	MaxRows int
	Log     *logger.Logger
}

// Service builds reports. It remembers the last result and returns it again
// when the filter and the loaded records have not changed.
type Service struct {
	loader Loader
	opt    Options
	log    *logger.Logger

	mu      sync.Mutex
	memoKey uint64
	memo    *Result
}

// NewService returns a Service reading from loader.
func NewService(loader Loader, opt Options) *Service {
	lg := opt.Log
	if lg == nil {
		lg = logger.Nop()
	}
	return &Service{loader: loader, opt: opt, log: lg.With("job", opt.Job)}
}

// Build produces the boleta for f. A filter that matches nothing yields an
// empty Result with no pages and no error.
func (s *Service) Build(ctx context.Context, f records.Filter) (*Result, error) {
	job := s.opt.Job

	start := time.Now()
	recs, err := s.loader.Load(ctx, f)
	metrics.RecordStep(job, "load", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	metrics.RecordRow(job, "loaded", int64(len(recs)))

	filtered := f.Apply(recs)
	metrics.RecordRow(job, "filtered", int64(len(recs)-len(filtered)))
	if s.opt.MaxRows > 0 && len(filtered) > s.opt.MaxRows {
		return nil, fmt.Errorf("%w: %d records, limit %d", ErrTooManyRows, len(filtered), s.opt.MaxRows)
	}

	key := fingerprint(f, filtered)
	s.mu.Lock()
	if s.memo != nil && s.memoKey == key {
		res := s.memo
		s.mu.Unlock()
		s.log.Debug("report unchanged, reusing layout", "records", len(filtered))
		return res, nil
	}
	s.mu.Unlock()

	start = time.Now()
	rows := aggregate.Aggregate(filtered)
	metrics.RecordStep(job, "aggregate", nil, time.Since(start))
	metrics.RecordRow(job, "report_rows", int64(len(rows)))

	res := &Result{Filter: f, Records: len(filtered), Rows: rows}
	if len(rows) == 0 {
		s.log.Info("nothing to print", "records", len(filtered))
		s.remember(key, res)
		return res, nil
	}

	start = time.Now()
	res.ComponentsWidth = s.opt.Geometry.ComponentsWidth()
	res.Pages, err = layout.Paginate(rows, s.opt.Geometry, s.opt.Measurer)
	metrics.RecordStep(job, "paginate", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("paginate: %w", err)
	}
	metrics.RecordPages(job, int64(len(res.Pages)))

	s.log.Info("report built", "records", len(filtered), "rows", len(rows), "pages", len(res.Pages))
	s.remember(key, res)
	return res, nil
}

func (s *Service) remember(key uint64, res *Result) {
	s.mu.Lock()
	s.memoKey, s.memo = key, res
	s.mu.Unlock()
}

// fingerprint hashes the filter and every field of every record, in order.
func fingerprint(f records.Filter, recs []records.RawRecord) uint64 {
	h := xxh3.New()
	field := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	field(f.Shift)
	field(f.Line)
	field(f.PartNumber)
	for _, r := range recs {
		field(r.Shift)
		field(r.Line)
		field(r.PartNumber)
		field(r.DefectDescription)
		field(r.ComponentCode)
		field(r.ComponentDescription)
		field(r.Unit)
		field(r.Quantity.String())
		field(r.RegistroID)
		field(strconv.FormatBool(r.Omitted))
		field(r.Origin)
		_, _ = h.Write([]byte{1})
	}
	return h.Sum64()
}
