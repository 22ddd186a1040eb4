package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLog(t testing.TB, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "registros.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return p
}

func TestLocalOpen(t *testing.T) {
	t.Parallel()

	const log = "Turno,Linea\nA,L1\n"

	t.Run("reads_content", func(t *testing.T) {
		t.Parallel()
		src := NewLocal(writeLog(t, log))
		rc, err := src.Open(context.Background())
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		defer rc.Close()
		got, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != log {
			t.Fatalf("content = %q, want %q", got, log)
		}
		// every Open is a fresh reader
		rc2, err := src.Open(context.Background())
		if err != nil {
			t.Fatalf("second Open: %v", err)
		}
		rc2.Close()
	})

	t.Run("missing_file_wraps_not_exist", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "missing.csv")
		rc, err := NewLocal(p).Open(context.Background())
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("err = %v, want ErrNotExist", err)
		}
		if !strings.Contains(err.Error(), p) {
			t.Fatalf("error %q does not name the path", err)
		}
		if rc != nil {
			t.Fatalf("got non-nil reader on error")
		}
	})

	t.Run("canceled_context_short_circuits", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := NewLocal(writeLog(t, log)).Open(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	})
}

func BenchmarkLocalOpen(b *testing.B) {
	src := NewLocal(writeLog(b, "Turno\nA\n"))
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rc, err := src.Open(ctx)
		if err != nil {
			b.Fatal(err)
		}
		rc.Close()
	}
}
