// Package aggregate turns filtered rejection-log records into boleta rows.
//
// Two mutually exclusive rules apply, selected by record origin:
//
//   - TRW records are summed per (part number, defect description). Rows keep
//     the order in which each pair first appears.
//   - Every other record is grouped by RegistroID (one physical rejected unit).
//     Units with the same normalized line, part number, defect and set of
//     missing components collapse into one row whose count is the number of
//     units and whose shifts are the union of the units' shifts.
//
// TRW rows always precede the registro rows, which are sorted by normalized
// line, part number and defect description.
package aggregate

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

const (
	// FinishedText is shown when a unit has no missing components.
	FinishedText = "Pieza terminada"
	// FinishedSignature is the missing-components signature of a finished unit.
	FinishedSignature = "__TERMINADA__"

	keySeparator     = "||"
	missingSeparator = "|"
	tripleSeparator  = "~"
	lineSeparator    = "\n"
)

// Aggregate maps records to report rows. It never fails: records without a
// RegistroID are dropped from the registro rule and missing quantities count
// as zero.
func Aggregate(in []records.RawRecord) []records.ReportRow {
	var trw, units []records.RawRecord
	for _, r := range in {
		if r.IsTRW() {
			trw = append(trw, r)
		} else {
			units = append(units, r)
		}
	}
	out := sumTRW(trw)
	return append(out, collapseUnits(units, newNormalizer())...)
}

type partDefect struct {
	part   string
	defect string
}

// sumTRW applies the TRW rule.
func sumTRW(in []records.RawRecord) []records.ReportRow {
	if len(in) == 0 {
		return nil
	}
	var order []partDefect
	sums := make(map[partDefect]decimal.Decimal)
	for _, r := range in {
		k := partDefect{part: r.PartNumber, defect: r.DefectDescription}
		sum, seen := sums[k]
		if !seen {
			order = append(order, k)
		}
		sums[k] = sum.Add(r.Quantity)
	}

	out := make([]records.ReportRow, 0, len(order))
	for _, k := range order {
		out = append(out, records.ReportRow{
			Shifts:            []string{},
			PartNumber:        k.part,
			DefectDescription: k.defect,
			Count:             roundCount(sums[k]),
		})
	}
	return out
}

// roundCount rounds half away from zero to an integer.
func roundCount(d decimal.Decimal) int {
	return int(d.Round(0).IntPart())
}

// unitRow accumulates the units collapsed into one registro row.
type unitRow struct {
	shifts map[string]struct{}
	row    records.ReportRow

	// sort keys
	line, part, defect, signature string
}

// collapseUnits applies the registro rule.
func collapseUnits(in []records.RawRecord, n normalizer) []records.ReportRow {
	var ids []string
	groups := make(map[string][]records.RawRecord)
	for _, r := range in {
		if r.RegistroID == "" {
			continue
		}
		if _, ok := groups[r.RegistroID]; !ok {
			ids = append(ids, r.RegistroID)
		}
		groups[r.RegistroID] = append(groups[r.RegistroID], r)
	}

	acc := make(map[string]*unitRow)
	for _, id := range ids {
		var active, omitted []records.RawRecord
		for _, r := range groups[id] {
			if r.IsActive() {
				active = append(active, r)
			} else {
				omitted = append(omitted, r)
			}
		}
		base := active
		if len(base) == 0 {
			base = omitted
		}
		if len(base) == 0 {
			continue
		}
		first := slices.MinFunc(base, compareRecords)

		text, signature := describeMissing(omitted, n)
		line, part, defect := n.norm(first.Line), n.norm(first.PartNumber), n.norm(first.DefectDescription)
		key := strings.Join([]string{line, part, defect, signature}, keySeparator)

		u, ok := acc[key]
		if !ok {
			u = &unitRow{
				shifts: make(map[string]struct{}),
				row: records.ReportRow{
					Line:              strings.TrimSpace(first.Line),
					PartNumber:        strings.TrimSpace(first.PartNumber),
					DefectDescription: strings.TrimSpace(first.DefectDescription),
					ComponentsText:    text,
				},
				line:      line,
				part:      part,
				defect:    defect,
				signature: signature,
			}
			acc[key] = u
		} else {
			u.row.Line = minString(u.row.Line, strings.TrimSpace(first.Line))
			u.row.PartNumber = minString(u.row.PartNumber, strings.TrimSpace(first.PartNumber))
			u.row.DefectDescription = minString(u.row.DefectDescription, strings.TrimSpace(first.DefectDescription))
			u.row.ComponentsText = minString(u.row.ComponentsText, text)
		}
		if shift := n.norm(first.Shift); shift != "" {
			u.shifts[shift] = struct{}{}
		}
		u.row.Count++
	}

	sorted := slices.SortedFunc(maps.Values(acc), func(a, b *unitRow) int {
		return cmp.Or(
			strings.Compare(a.line, b.line),
			strings.Compare(a.part, b.part),
			strings.Compare(a.defect, b.defect),
			strings.Compare(a.signature, b.signature),
		)
	})

	out := make([]records.ReportRow, 0, len(sorted))
	for _, u := range sorted {
		u.row.Shifts = slices.Sorted(maps.Keys(u.shifts))
		out = append(out, u.row)
	}
	return out
}

// compareRecords orders the records of one unit by their trimmed raw
// fields, so the representative record does not depend on input order.
func compareRecords(a, b records.RawRecord) int {
	t := strings.TrimSpace
	return cmp.Or(
		strings.Compare(t(a.Line), t(b.Line)),
		strings.Compare(t(a.PartNumber), t(b.PartNumber)),
		strings.Compare(t(a.DefectDescription), t(b.DefectDescription)),
		strings.Compare(t(a.Shift), t(b.Shift)),
		strings.Compare(a.ComponentCode, b.ComponentCode),
		strings.Compare(a.ComponentDescription, b.ComponentDescription),
		strings.Compare(a.Unit, b.Unit),
		a.Quantity.Cmp(b.Quantity),
		strings.Compare(a.Origin, b.Origin),
		cmpBool(a.Omitted, b.Omitted),
		strings.Compare(a.Line, b.Line),
		strings.Compare(a.PartNumber, b.PartNumber),
		strings.Compare(a.DefectDescription, b.DefectDescription),
		strings.Compare(a.Shift, b.Shift),
	)
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func minString(a, b string) string {
	if b < a {
		return b
	}
	return a
}

type missingComponent struct {
	code, desc, unit          string
	rawCode, rawDesc, rawUnit string
}

// describeMissing returns the rendered missing-components text and its
// dedup signature.
func describeMissing(omitted []records.RawRecord, n normalizer) (text, signature string) {
	if len(omitted) == 0 {
		return FinishedText, FinishedSignature
	}

	items := make([]missingComponent, 0, len(omitted))
	for _, r := range omitted {
		items = append(items, missingComponent{
			code:    n.norm(r.ComponentCode),
			desc:    n.norm(r.ComponentDescription),
			unit:    n.norm(r.Unit),
			rawCode: r.ComponentCode,
			rawDesc: r.ComponentDescription,
			rawUnit: r.Unit,
		})
	}
	slices.SortFunc(items, func(a, b missingComponent) int {
		return cmp.Or(
			strings.Compare(a.code, b.code),
			strings.Compare(a.desc, b.desc),
			strings.Compare(a.unit, b.unit),
			strings.Compare(a.rawCode, b.rawCode),
			strings.Compare(a.rawDesc, b.rawDesc),
			strings.Compare(a.rawUnit, b.rawUnit),
		)
	})

	sig := make([]string, len(items))
	lines := make([]string, len(items))
	for i, it := range items {
		sig[i] = it.code + tripleSeparator + it.desc + tripleSeparator + it.unit
		lines[i] = "- " + it.rawCode + " | " + it.rawDesc + " (x0 " + it.rawUnit + ")"
	}
	return strings.Join(lines, lineSeparator), strings.Join(sig, missingSeparator)
}

// normalizer trims and upper-cases text for keys and ordering. A Caser keeps
// internal state, so each Aggregate call builds its own.
type normalizer struct {
	upper cases.Caser
}

func newNormalizer() normalizer {
	return normalizer{upper: cases.Upper(language.Und)}
}

func (n normalizer) norm(s string) string {
	return n.upper.String(strings.TrimSpace(s))
}
