package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage"
)

func openTemp(t *testing.T) storage.Repository {
	t.Helper()
	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{
		Kind:  "sqlite",
		DSN:   filepath.Join(t.TempDir(), "scrap.db"),
		Table: "registros",
	})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(repo.Close)
	if err := storage.EnsureTable(ctx, "sqlite", "registros", repo); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	// Idempotent.
	if err := storage.EnsureTable(ctx, "sqlite", "registros", repo); err != nil {
		t.Fatalf("EnsureTable twice: %v", err)
	}
	return repo
}

func TestRepository_RoundTripInInsertionOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := openTemp(t)

	in := []records.RawRecord{
		{Shift: "A", Line: "L1", PartNumber: "P1", DefectDescription: "D1", Quantity: decimal.RequireFromString("1"), RegistroID: "R1", Origin: records.OriginRechazo},
		{Shift: "A", Line: "L1", PartNumber: "P1", ComponentCode: "C1", ComponentDescription: "Comp", Unit: "PZ", Quantity: decimal.RequireFromString("0.125"), RegistroID: "R1", Omitted: true, Origin: records.OriginSubBOM},
		{Shift: "B", Line: "L2", PartNumber: "P2", DefectDescription: "D2", Quantity: decimal.RequireFromString("2.5"), Origin: records.OriginTRW},
	}
	rows := make([][]any, len(in))
	for i, r := range in {
		rows[i] = storage.RecordValues(r)
	}
	n, err := repo.CopyFrom(ctx, records.Columns, rows)
	if err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if n != 3 {
		t.Fatalf("inserted %d, want 3", n)
	}

	got, err := repo.QueryRecords(ctx, records.Filter{})
	if err != nil {
		t.Fatalf("QueryRecords: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("records (-want +got):\n%s", diff)
	}

	got, err = repo.QueryRecords(ctx, records.Filter{Shift: "A", PartNumber: "P1"})
	if err != nil {
		t.Fatalf("QueryRecords filtered: %v", err)
	}
	if diff := cmp.Diff(in[:2], got); diff != "" {
		t.Fatalf("filtered records (-want +got):\n%s", diff)
	}
}

func TestRepository_CopyFromRowLengthMismatch(t *testing.T) {
	t.Parallel()
	repo := openTemp(t)

	_, err := repo.CopyFrom(context.Background(), records.Columns, [][]any{{"only-one"}})
	if err == nil {
		t.Fatal("expected error on short row")
	}
	got, err := repo.QueryRecords(context.Background(), records.Filter{})
	if err != nil {
		t.Fatalf("QueryRecords: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("rolled-back batch left %d rows", len(got))
	}
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}
