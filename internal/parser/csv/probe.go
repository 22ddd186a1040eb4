package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

// HeaderMapping is one source header cell and the canonical column it maps
// to. Column is empty when the cell is ignored.
type HeaderMapping struct {
	Source string `json:"source"`
	Column string `json:"column"`
}

// Probe summarizes how an export will be read.
type Probe struct {
	Headers []HeaderMapping `json:"headers"`
	// Missing lists canonical columns no header maps to; they take defaults.
	Missing []string `json:"missing"`
	// Sampled is the number of data rows inspected.
	Sampled int `json:"sampled"`
	Stats   Stats `json:"stats"`
}

// ProbeHeader reads the header of r and decodes up to sampleRows data rows
// (all rows when sampleRows <= 0) without emitting records.
func ProbeHeader(r io.Reader, opt Options, sampleRows int) (Probe, error) {
	var p Probe

	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err != nil {
		return p, fmt.Errorf("read csv header: %w", err)
	}
	cols := normalizeHeaders(h, opt.HeaderMap)
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		m := HeaderMapping{Source: strings.TrimSpace(strings.TrimPrefix(h[i], utf8BOM))}
		if isCanonical(c) {
			m.Column = c
			seen[c] = true
		}
		p.Headers = append(p.Headers, m)
	}
	for _, c := range records.Columns {
		if !seen[c] {
			p.Missing = append(p.Missing, c)
		}
	}
	if len(seen) == 0 {
		return p, fmt.Errorf("%w: %v", ErrNoKnownColumns, h)
	}

	for sampleRows <= 0 || p.Sampled < sampleRows {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		p.Sampled++
		if err != nil || len(rec) != len(cols) {
			p.Stats.ParseErrors++
			continue
		}
		fields := make(map[string]string, len(cols))
		for i, c := range cols {
			fields[c] = strings.TrimSpace(rec[i])
		}
		_, anomalies := records.Decode(fields)
		p.Stats.Anomalies += len(anomalies)
		if !opt.Strict || len(anomalies) == 0 {
			p.Stats.Rows++
		}
	}
	return p, nil
}

// Known reports whether the canonical column c is present in the header.
func (p Probe) Known(c string) bool {
	return slices.ContainsFunc(p.Headers, func(m HeaderMapping) bool { return m.Column == c })
}
