package bom

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/config"
)

func seedCatalog(t *testing.T) *Catalog {
	t.Helper()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "bom.db")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	stmts := []string{
		`CREATE TABLE BOM (Material TEXT, Component TEXT, MaterialDescription TEXT, ComponentQuantity NUMERIC, ComponentUnity TEXT)`,
		`INSERT INTO BOM VALUES ('M1', 'C1', 'Screw', 2, ' PZ ')`,
		`INSERT INTO BOM VALUES ('M1', 'C2', 'Glue', 0.125, 'KG')`,
		`INSERT INTO BOM VALUES ('M1', 'C3', 'No unit', 1, '  ')`,
		`INSERT INTO BOM VALUES ('M1', 'C4', 'Null qty', NULL, 'PZ')`,
		`INSERT INTO BOM VALUES ('C2', 'C9', 'Resin', 1, 'L')`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			t.Fatalf("seed %q: %v", s, err)
		}
	}
	_ = db.Close()

	c, err := Open(ctx, config.BOM{Driver: "sqlite", DSN: dsn, Table: "BOM"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCatalog_Components(t *testing.T) {
	t.Parallel()

	c := seedCatalog(t)
	got, err := c.Components(context.Background(), "M1")
	if err != nil {
		t.Fatalf("Components: %v", err)
	}
	want := []Line{
		{Component: "C1", Description: "Screw", Quantity: decimal.NewFromInt(2), Unit: "PZ"},
		{Component: "C2", Description: "Glue", Quantity: decimal.RequireFromString("0.125"), Unit: "KG"},
		{Component: "C4", Description: "Null qty", Quantity: decimal.Zero, Unit: "PZ"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Components (-want +got):\n%s", diff)
	}

	none, err := c.Components(context.Background(), "missing")
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown material: %v, %v", none, err)
	}
}

func TestCatalog_HasBOM(t *testing.T) {
	t.Parallel()

	c := seedCatalog(t)
	for material, want := range map[string]bool{"M1": true, "C2": true, "C1": false} {
		got, err := c.HasBOM(context.Background(), material)
		if err != nil {
			t.Fatalf("HasBOM(%q): %v", material, err)
		}
		if got != want {
			t.Errorf("HasBOM(%q) = %v, want %v", material, got, want)
		}
	}
}

func TestNew_Rejects(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, "oracle", "BOM"); err == nil {
		t.Fatal("expected unsupported driver error")
	}
	if _, err := New(nil, "sqlite", " "); err == nil {
		t.Fatal("expected empty table error")
	}
}
