package bom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

// ErrQuantity reports a component quantity outside 0..MaxQuantity or with
// more than QuantityScale decimals.
var ErrQuantity = errors.New("bom: invalid component quantity")

// Component quantities are entered with at most three decimals.
const QuantityScale = 3

var MaxQuantity = decimal.NewFromInt(1_000_000)

// ValidateQuantity checks the range and precision accepted for a component
// quantity.
func ValidateQuantity(q decimal.Decimal) error {
	if q.IsNegative() || q.GreaterThan(MaxQuantity) {
		return fmt.Errorf("%w: %s not in 0..%s", ErrQuantity, q, MaxQuantity)
	}
	if !q.Equal(q.Truncate(QuantityScale)) {
		return fmt.Errorf("%w: %s has more than %d decimals", ErrQuantity, q, QuantityScale)
	}
	return nil
}

// BuildRecords turns the lines of material into SUBBOM component records
// that share one new RegistroID. overrides replaces catalog quantities by
// component code. Lines with a blank unit or description are skipped, and a
// line whose quantity is zero is marked omitted. newID defaults to a random
// UUID.
func BuildRecords(material string, lines []Line, overrides map[string]decimal.Decimal, newID func() string) ([]records.RawRecord, error) {
	if newID == nil {
		newID = uuid.NewString
	}
	id := newID()

	out := make([]records.RawRecord, 0, len(lines))
	for _, l := range lines {
		unit := strings.TrimSpace(l.Unit)
		if unit == "" || strings.TrimSpace(l.Description) == "" {
			continue
		}
		q := l.Quantity
		if o, ok := overrides[l.Component]; ok {
			q = o
		}
		if err := ValidateQuantity(q); err != nil {
			return nil, fmt.Errorf("component %q: %w", l.Component, err)
		}
		out = append(out, records.RawRecord{
			PartNumber:           material,
			ComponentCode:        l.Component,
			ComponentDescription: l.Description,
			Unit:                 unit,
			Quantity:             q,
			RegistroID:           id,
			Omitted:              !q.IsPositive(),
			Origin:               records.OriginSubBOM,
		})
	}
	return out, nil
}
