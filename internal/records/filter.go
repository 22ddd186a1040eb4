package records

import "strings"

// Filter narrows the log by equality on shift, line and part number. A blank
// predicate places no constraint on its field; non-blank predicates compare
// exactly (no substring, no case folding).
type Filter struct {
	Shift      string `json:"shift" yaml:"shift"`
	Line       string `json:"line" yaml:"line"`
	PartNumber string `json:"part_number" yaml:"part_number"`
}

// IsZero reports whether the filter places no constraint at all.
func (f Filter) IsZero() bool {
	return blank(f.Shift) && blank(f.Line) && blank(f.PartNumber)
}

// Match reports whether r satisfies every non-blank predicate.
func (f Filter) Match(r RawRecord) bool {
	if !blank(f.Shift) && r.Shift != f.Shift {
		return false
	}
	if !blank(f.Line) && r.Line != f.Line {
		return false
	}
	if !blank(f.PartNumber) && r.PartNumber != f.PartNumber {
		return false
	}
	return true
}

// Apply returns the records matching f, preserving order. The input slice is
// returned unchanged when the filter is zero.
func (f Filter) Apply(in []RawRecord) []RawRecord {
	if f.IsZero() {
		return in
	}
	out := make([]RawRecord, 0, len(in))
	for _, r := range in {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
