// Package csv streams rejection-log records from CSV exports.
//
// The first row is a header. Header names are mapped to canonical column
// names through records.DefaultHeaderMap, then through the configured
// header_map, so exports from older shop-floor builds keep working. Unknown
// columns are ignored and missing ones take their defaults. Row problems are
// soft: they go to onError and the stream continues.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/config"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// ErrNoKnownColumns is returned when no header maps to a canonical column.
var ErrNoKnownColumns = errors.New("csv: header has no known columns")

// Options configures the reader.
type Options struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// HeaderMap maps extra source header names to canonical columns.
	HeaderMap map[string]string
	// LazyQuotes relaxes quote handling for hand-edited exports.
	LazyQuotes bool
	// Strict turns field anomalies (unparsable quantities) into dropped rows.
	Strict bool
}

// OptionsFrom reads Options from parser.options.
func OptionsFrom(o config.Options) Options {
	return Options{
		Comma:      o.Rune("comma", ','),
		HeaderMap:  o.StringMap("header_map"),
		LazyQuotes: o.Bool("lazy_quotes", false),
		Strict:     o.Bool("strict", false),
	}
}

// Stats counts what a stream saw.
type Stats struct {
	Rows        int
	ParseErrors int
	Anomalies   int
}

// AnomalyError reports a tolerated field defect on a line.
type AnomalyError struct {
	records.Anomaly
}

func (e *AnomalyError) Error() string {
	return fmt.Sprintf("column %s: unparsable value %q", e.Column, e.Value)
}

// StreamRecords decodes r and sends each record to out. It returns when r
// is exhausted, ctx is done or the header cannot be read. The caller closes
// out.
func StreamRecords(
	ctx context.Context,
	r io.Reader,
	opt Options,
	out chan<- records.RawRecord,
	onError func(line int, err error),
) (Stats, error) {
	var st Stats
	report := func(line int, err error) {
		if onError != nil {
			onError(line, err)
		}
	}

	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	h, err := cr.Read()
	if err == io.EOF {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h, opt.HeaderMap)
	known := 0
	for _, c := range headers {
		if isCanonical(c) {
			known++
		}
	}
	if known == 0 {
		return st, fmt.Errorf("%w: %v", ErrNoKnownColumns, h)
	}

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		rec, err := cr.Read()
		if err == io.EOF {
			return st, nil
		}
		line++
		if err != nil {
			st.ParseErrors++
			report(line, fmt.Errorf("parse: %w", err))
			continue
		}
		if len(rec) != len(headers) {
			st.ParseErrors++
			report(line, fmt.Errorf("incorrect number of fields: expected %d, got %d", len(headers), len(rec)))
			continue
		}

		fields := make(map[string]string, len(headers))
		for i, col := range headers {
			if col != "" {
				fields[col] = strings.TrimSpace(rec[i])
			}
		}
		raw, anomalies := records.Decode(fields)
		for _, a := range anomalies {
			st.Anomalies++
			report(line, &AnomalyError{Anomaly: a})
		}
		if opt.Strict && len(anomalies) > 0 {
			continue
		}

		st.Rows++
		select {
		case out <- raw:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// ReadAll collects every record of r.
func ReadAll(ctx context.Context, r io.Reader, opt Options, onError func(line int, err error)) ([]records.RawRecord, Stats, error) {
	out := make(chan records.RawRecord, 256)
	var (
		st  Stats
		err error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(out)
		st, err = StreamRecords(ctx, r, opt, out, onError)
	}()

	var recs []records.RawRecord
	for rec := range out {
		recs = append(recs, rec)
	}
	<-done
	return recs, st, err
}

// normalizeHeaders maps raw header cells to canonical column names. A cell
// that is neither in a header map nor canonical becomes its lower-cased,
// underscored form and is ignored downstream.
func normalizeHeaders(h []string, extra map[string]string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimSpace(strings.TrimPrefix(c, utf8BOM))
		}
		if m, ok := extra[c]; ok {
			res[i] = m
			continue
		}
		if m, ok := lookupFold(records.DefaultHeaderMap, c); ok {
			res[i] = m
			continue
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}

func lookupFold(m map[string]string, key string) (string, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func isCanonical(col string) bool {
	return slices.Contains(records.Columns, col)
}
