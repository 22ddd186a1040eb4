// Package records defines the typed rows that flow through the boleta
// pipeline: RawRecord (one logged defect line or one missing-component line)
// and ReportRow (one line of the aggregated boleta).
//
// Optional columns that a source does not carry decode to their zero values:
// empty strings, a zero quantity, and Omitted=false.
package records

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Origin tags with special meaning.
const (
	// OriginTRW selects the quantity-summing aggregation rule.
	OriginTRW = "TRW"
	// OriginSubBOM marks component lines appended from a bill of materials.
	OriginSubBOM = "SUBBOM"
	// OriginRechazo is the default origin for defect lines.
	OriginRechazo = "RECHAZO"
)

// RawRecord is one line of the rejection log.
type RawRecord struct {
	Shift             string `json:"shift"`
	Line              string `json:"line"`
	PartNumber        string `json:"part_number"`
	DefectDescription string `json:"defect_description"`

	// Component fields are empty when the line is not a component line.
	ComponentCode        string `json:"component_code"`
	ComponentDescription string `json:"component_description"`
	Unit                 string `json:"unit"`

	Quantity decimal.Decimal `json:"quantity"`

	// RegistroID links a defect line with its missing-component lines. Empty
	// means the record cannot be grouped.
	RegistroID string `json:"registro_id"`

	// Omitted marks a component that was not available or not consumed.
	Omitted bool `json:"omitted"`

	Origin string `json:"origin"`
}

// IsTRW reports whether the record comes from the TRW origin
// (case-insensitive).
func (r RawRecord) IsTRW() bool {
	return strings.EqualFold(r.Origin, OriginTRW)
}

// IsActive reports whether the record is the defect line of its unit:
// positive quantity and not omitted.
func (r RawRecord) IsActive() bool {
	return r.Quantity.IsPositive() && !r.Omitted
}

// ReportRow is one aggregated line of the boleta.
type ReportRow struct {
	// Shifts is the distinct, sorted set of shifts collapsed into the row.
	Shifts            []string `json:"shifts"`
	Line              string   `json:"line"`
	PartNumber        string   `json:"part_number"`
	DefectDescription string   `json:"defect_description"`
	ComponentsText    string   `json:"components_text"`
	Count             int      `json:"count"`
}

// ShiftText renders the shift set comma-joined, in sorted order.
func (r ReportRow) ShiftText() string {
	return strings.Join(r.Shifts, ",")
}
