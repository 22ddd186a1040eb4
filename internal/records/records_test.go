package records

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", "0", true},
		{"  ", "0", true},
		{"1.25", "1.25", true},
		{"1,5", "1.5", true},
		{"-2", "-2", true},
		{"abc", "0", false},
		{"1.2.3", "0", false},
	}
	for _, tt := range tests {
		got, ok := ParseQuantity(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseQuantity(%q) ok=%v want %v", tt.in, ok, tt.wantOK)
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseQuantity(%q)=%s want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"true", "TRUE", "1", "Si", "sí", " yes "} {
		if !ParseBool(s) {
			t.Errorf("ParseBool(%q)=false want true", s)
		}
	}
	for _, s := range []string{"", "0", "false", "no", "maybe"} {
		if ParseBool(s) {
			t.Errorf("ParseBool(%q)=true want false", s)
		}
	}
}

func TestDecode_DefaultsAndAnomalies(t *testing.T) {
	t.Parallel()

	rec, anomalies := Decode(map[string]string{
		ColShift:      "A",
		ColPartNumber: "P1",
		ColQuantity:   "n/a",
		ColRegistroID: " R1 ",
	})
	if rec.Shift != "A" || rec.PartNumber != "P1" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.Quantity.IsZero() {
		t.Fatalf("quantity = %s, want 0", rec.Quantity)
	}
	if rec.RegistroID != "R1" {
		t.Fatalf("registro id = %q, want trimmed R1", rec.RegistroID)
	}
	if rec.Omitted || rec.Origin != "" || rec.Unit != "" {
		t.Fatalf("optional fields should default: %+v", rec)
	}
	if len(anomalies) != 1 || anomalies[0].Column != ColQuantity {
		t.Fatalf("anomalies = %+v, want one quantity anomaly", anomalies)
	}
}

func TestRawRecord_Predicates(t *testing.T) {
	t.Parallel()

	if !(RawRecord{Origin: "trw"}).IsTRW() {
		t.Fatal("lower-case trw should select the TRW rule")
	}
	if (RawRecord{Origin: "TRW2"}).IsTRW() {
		t.Fatal("TRW2 is not TRW")
	}
	if !(RawRecord{Quantity: decimal.NewFromInt(1)}).IsActive() {
		t.Fatal("qty 1 not omitted should be active")
	}
	if (RawRecord{Quantity: decimal.NewFromInt(1), Omitted: true}).IsActive() {
		t.Fatal("omitted record is never active")
	}
	if (RawRecord{}).IsActive() {
		t.Fatal("zero quantity is never active")
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	in := []RawRecord{
		{Shift: "A", Line: "L1", PartNumber: "P1"},
		{Shift: "B", Line: "L1", PartNumber: "P2"},
		{Shift: "A", Line: "L2", PartNumber: "P1"},
		{Shift: "a", Line: "L1", PartNumber: "P1"},
	}

	tests := []struct {
		name string
		f    Filter
		want int
	}{
		{"zero", Filter{}, 4},
		{"blank predicates", Filter{Shift: " ", Line: "\t"}, 4},
		{"shift exact", Filter{Shift: "A"}, 2},
		{"shift and line", Filter{Shift: "A", Line: "L1"}, 1},
		{"no substring", Filter{PartNumber: "P"}, 0},
		{"part", Filter{PartNumber: "P1"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.f.Apply(in)); got != tt.want {
				t.Fatalf("Apply()=%d rows want %d", got, tt.want)
			}
		})
	}
}
