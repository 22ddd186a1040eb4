package records

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical column names used by parsers and storage backends.
const (
	ColShift                = "turno"
	ColLine                 = "linea"
	ColPartNumber           = "numero_parte"
	ColDefectDescription    = "descripcion_defecto"
	ColComponentCode        = "componente_codigo"
	ColComponentDescription = "componente"
	ColUnit                 = "unidad"
	ColQuantity             = "cantidad"
	ColRegistroID           = "registro_id"
	ColOmitted              = "omitido"
	ColOrigin               = "origen"
)

// Columns is the canonical column order of the rejection log.
var Columns = []string{
	ColShift,
	ColLine,
	ColPartNumber,
	ColDefectDescription,
	ColComponentCode,
	ColComponentDescription,
	ColUnit,
	ColQuantity,
	ColRegistroID,
	ColOmitted,
	ColOrigin,
}

// DefaultHeaderMap maps the headers written by the shop-floor application to
// canonical column names.
var DefaultHeaderMap = map[string]string{
	"Turno":              ColShift,
	"Linea":              ColLine,
	"NumeroParte":        ColPartNumber,
	"DescripcionDefecto": ColDefectDescription,
	"ComponenteCodigo":   ColComponentCode,
	"Componente":         ColComponentDescription,
	"Unidad":             ColUnit,
	"Cantidad":           ColQuantity,
	"RegistroId":         ColRegistroID,
	"Omitido":            ColOmitted,
	"Origen":             ColOrigin,
}

// Anomaly describes a tolerated defect in a source field. Anomalies never
// fail a decode; the field takes its default value.
type Anomaly struct {
	Column string
	Value  string
}

// Decode builds a RawRecord from canonical column values. Missing columns
// take their defaults. An unparsable quantity decodes as zero and is reported
// as an anomaly.
func Decode(fields map[string]string) (RawRecord, []Anomaly) {
	var anomalies []Anomaly
	qty, ok := ParseQuantity(fields[ColQuantity])
	if !ok {
		anomalies = append(anomalies, Anomaly{Column: ColQuantity, Value: fields[ColQuantity]})
	}
	rec := RawRecord{
		Shift:                fields[ColShift],
		Line:                 fields[ColLine],
		PartNumber:           fields[ColPartNumber],
		DefectDescription:    fields[ColDefectDescription],
		ComponentCode:        fields[ColComponentCode],
		ComponentDescription: fields[ColComponentDescription],
		Unit:                 fields[ColUnit],
		Quantity:             qty,
		RegistroID:           strings.TrimSpace(fields[ColRegistroID]),
		Omitted:              ParseBool(fields[ColOmitted]),
		Origin:               fields[ColOrigin],
	}
	return rec, anomalies
}

// ParseQuantity parses a decimal quantity. Blank input is a valid zero;
// anything unparsable returns zero and ok=false. A decimal comma is accepted
// when no dot is present.
func ParseQuantity(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseBool is lenient: true, 1, yes, si, sí, x (any case) are true,
// everything else is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "si", "sí", "x", "t":
		return true
	}
	return false
}
