package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/report"
)

const sampleCSV = "Turno,Linea,NumeroParte,DescripcionDefecto,ComponenteCodigo,Componente,Unidad,Cantidad,RegistroId,Omitido,Origen\n" +
	"A,L1,P1,Golpe,,,,1,R1,false,RECHAZO\n" +
	"A,L1,P1,,C1,Tornillo,PZ,0,R1,true,SUBBOM\n" +
	"B,L1,P2,Raya,,,,1,R2,false,RECHAZO\n" +
	",,T9,Sorteo,,,,2.5,,,TRW\n"

type fixture struct {
	dir    string
	csv    string
	db     string
	bom    string
	config string
}

// newFixture writes a CSV log and a config that stores into a temp sqlite
// file. source selects the report source ("file" or "db").
func newFixture(t *testing.T, source string) fixture {
	t.Helper()
	dir := t.TempDir()
	fx := fixture{
		dir:    dir,
		csv:    filepath.Join(dir, "registros.csv"),
		db:     filepath.Join(dir, "scrap.db"),
		bom:    filepath.Join(dir, "bom.db"),
		config: filepath.Join(dir, "boleta.yaml"),
	}
	if err := os.WriteFile(fx.csv, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := fmt.Sprintf(`job: boleta-test
source:
  kind: %s
  file: { path: %q }
storage:
  kind: sqlite
  db: { dsn: %q, table: registros, auto_create_table: true }
bom:
  driver: sqlite
  dsn: %q
  table: BOM
log: { level: error }
`, source, fx.csv, fx.db, fx.bom)
	if err := os.WriteFile(fx.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return fx
}

func (fx fixture) seedBOM(t *testing.T) {
	t.Helper()
	db, err := sql.Open("sqlite", fx.bom)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, s := range []string{
		`CREATE TABLE BOM (Material TEXT, Component TEXT, MaterialDescription TEXT, ComponentQuantity NUMERIC, ComponentUnity TEXT)`,
		`INSERT INTO BOM VALUES ('M1', 'C1', 'Tornillo', 2, 'PZ')`,
		`INSERT INTO BOM VALUES ('M1', 'C2', 'Pegamento', 0.125, 'KG')`,
	} {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, &out, &errOut)
	if err != nil {
		t.Logf("stderr: %s", errOut.String())
	}
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("boleta %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// csvRows returns part number and count of every printed row.
func csvRows(t *testing.T, out string) []string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv output: %v\n%s", err, out)
	}
	var got []string
	for _, r := range rows[1:] {
		got = append(got, r[2]+"="+r[5])
	}
	return got
}

func TestReport_FromFile(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, "file")

	out := mustExecute(t, "report", "--config", fx.config, "--format", "csv")
	want := []string{"T9=3", "P1=1", "P2=1"}
	if diff := cmp.Diff(want, csvRows(t, out)); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}

	out = mustExecute(t, "report", "--config", fx.config, "--format", "csv", "--shift", "B")
	if diff := cmp.Diff([]string{"P2=1"}, csvRows(t, out)); diff != "" {
		t.Fatalf("filtered rows (-want +got):\n%s", diff)
	}
}

func TestReport_TableAndEmpty(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, "file")

	out := mustExecute(t, "report", "--config", fx.config)
	for _, s := range []string{"Numero de Parte", "- C1 | Tornillo (x0 PZ)", "Pieza terminada", "4 records, 3 rows, 1 pages"} {
		if !strings.Contains(out, s) {
			t.Fatalf("table output missing %q:\n%s", s, out)
		}
	}

	out = mustExecute(t, "report", "--config", fx.config, "--part", "nope")
	if strings.TrimSpace(out) != "nothing to print" {
		t.Fatalf("empty report printed %q", out)
	}
}

func TestReport_WritesPagesAndLayout(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, "file")
	pages := filepath.Join(fx.dir, "pages")
	layoutPath := filepath.Join(fx.dir, "layout.json")

	mustExecute(t, "report", "--config", fx.config, "--format", "json", "--out", pages, "--layout-json", layoutPath)

	if _, err := os.Stat(filepath.Join(pages, "page-001.png")); err != nil {
		t.Fatalf("page image: %v", err)
	}
	b, err := os.ReadFile(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	var res report.Result
	if err := json.Unmarshal(b, &res); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if len(res.Pages) != 1 || len(res.Pages[0].Entries) != 3 {
		t.Fatalf("layout has %d pages, want 1 page with 3 entries", len(res.Pages))
	}
	if res.ComponentsWidth <= 0 {
		t.Fatalf("components width = %g", res.ComponentsWidth)
	}
}

func TestReport_UnknownFormat(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, "file")

	if _, err := execute(t, "report", "--config", fx.config, "--format", "xml"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestImportThenReportFromDB(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, "db")

	out := mustExecute(t, "import", fx.csv, "--config", fx.config)
	if !strings.Contains(out, "imported 4 records") {
		t.Fatalf("import output = %q", out)
	}

	out = mustExecute(t, "report", "--config", fx.config, "--format", "csv")
	if diff := cmp.Diff([]string{"T9=3", "P1=1", "P2=1"}, csvRows(t, out)); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
}

func TestRecordAndBOMAdd(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, "db")
	fx.seedBOM(t)

	id := strings.TrimSpace(mustExecute(t, "record", "--config", fx.config,
		"--shift", "A", "--line", "L3", "--part", "M1", "--defect", "Soldadura fria"))
	if id == "" {
		t.Fatal("record printed no registro id")
	}

	out := mustExecute(t, "bom", "add", "M1", "--config", fx.config, "--id", id, "--qty", "C2=0")
	if want := id + " 2"; strings.TrimSpace(out) != want {
		t.Fatalf("bom add output = %q, want %q", out, want)
	}

	out = mustExecute(t, "report", "--config", fx.config, "--format", "json")
	var res report.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	want := []records.ReportRow{{
		Shifts:            []string{"A"},
		Line:              "L3",
		PartNumber:        "M1",
		DefectDescription: "Soldadura fria",
		ComponentsText:    "- C2 | Pegamento (x0 KG)",
		Count:             1,
	}}
	if diff := cmp.Diff(want, res.Rows); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
}

func TestBOMListAndHas(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, "file")
	fx.seedBOM(t)

	out := mustExecute(t, "bom", "list", "M1", "--config", fx.config)
	for _, s := range []string{"Tornillo", "Pegamento", "0.125"} {
		if !strings.Contains(out, s) {
			t.Fatalf("bom list missing %q:\n%s", s, out)
		}
	}
	if out := mustExecute(t, "bom", "has", "M1", "--config", fx.config); strings.TrimSpace(out) != "true" {
		t.Fatalf("bom has M1 = %q", out)
	}
	if out := mustExecute(t, "bom", "has", "C1", "--config", fx.config); strings.TrimSpace(out) != "false" {
		t.Fatalf("bom has C1 = %q", out)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, "file")

	out := mustExecute(t, "validate", "--config", fx.config, "--storage", "--bom")
	if !strings.Contains(out, "config ok") || !strings.Contains(out, "sqlite") {
		t.Fatalf("validate output = %q", out)
	}

	bad := filepath.Join(fx.dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("source: { kind: ftp }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "validate", "--config", bad); err == nil {
		t.Fatal("expected validation to fail for an unknown source kind")
	}
	if _, err := execute(t, "validate", "--config", filepath.Join(fx.dir, "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestRecordFlags_Build(t *testing.T) {
	t.Parallel()

	rec, err := recordFlags{part: " P1 ", qty: "2", origin: " ", id: "R9", shift: "A"}.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := records.RawRecord{Shift: "A", PartNumber: "P1", Quantity: decimal.NewFromInt(2), RegistroID: "R9", Origin: records.OriginRechazo}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record (-want +got):\n%s", diff)
	}

	for _, fl := range []recordFlags{{part: "P1", qty: "0"}, {part: "P1", qty: "x"}, {part: " ", qty: "1"}} {
		if _, err := fl.build(); err == nil {
			t.Fatalf("build(%+v): expected an error", fl)
		}
	}
	if rec, _ := (recordFlags{part: "P1", qty: "1"}).build(); rec.RegistroID == "" {
		t.Fatal("expected a generated registro id")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	got, err := parseOverrides([]string{"C1=2", " C2 = 0.125 "})
	if err != nil {
		t.Fatalf("parseOverrides: %v", err)
	}
	want := map[string]decimal.Decimal{"C1": decimal.NewFromInt(2), "C2": decimal.RequireFromString("0.125")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("overrides (-want +got):\n%s", diff)
	}
	for _, in := range []string{"C1", "=1", "C1=x", "C1=-1", "C1=0.0001"} {
		if _, err := parseOverrides([]string{in}); err == nil {
			t.Fatalf("parseOverrides(%q): expected an error", in)
		}
	}
}

func TestFormatQty(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"1234567": "1,234,567",
		"0":       "0",
		"0.125":   "0.125",
		"1500.5":  "1,500.500",
	}
	for in, want := range tests {
		if got := formatQty(decimal.RequireFromString(in)); got != want {
			t.Errorf("formatQty(%s)=%q want %q", in, got, want)
		}
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()
	fx := newFixture(t, "file")

	out := mustExecute(t, "probe", "--config", fx.config)
	for _, s := range []string{"NumeroParte", "numero_parte", "sampled 4 rows: 4 ok, 0 parse errors, 0 anomalies"} {
		if !strings.Contains(out, s) {
			t.Fatalf("probe output missing %q:\n%s", s, out)
		}
	}
	if strings.Contains(out, "missing (defaulted)") {
		t.Fatalf("every column is present, got:\n%s", out)
	}
}
