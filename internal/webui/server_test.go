package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/layout"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/render"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/report"
)

type fakeBuilder struct {
	mu   sync.Mutex
	seen []records.Filter
	err  error
}

func (b *fakeBuilder) Build(_ context.Context, f records.Filter) (*report.Result, error) {
	b.mu.Lock()
	b.seen = append(b.seen, f)
	b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	row := records.ReportRow{Shifts: []string{"A"}, Line: "L1", PartNumber: "P1", DefectDescription: "Golpe", ComponentsText: "- C1 | Tornillo (x0 PZ)", Count: 2}
	if f.PartNumber == "none" {
		return &report.Result{Filter: f}, nil
	}
	page := layout.Page{
		Number:  1,
		Header:  layout.Header{Title: layout.DefaultTitle, Y: 20, Height: 14},
		Entries: []layout.Entry{{Row: row, Y: 40, Height: 14}},
	}
	return &report.Result{Filter: f, Records: 3, Rows: []records.ReportRow{row}, Pages: []layout.Page{page}}, nil
}

func newTestServer(t *testing.T, b Builder) *Server {
	t.Helper()
	fs, err := render.LoadFonts("", "", 50)
	if err != nil {
		t.Fatalf("LoadFonts: %v", err)
	}
	return NewServer(Config{Defaults: records.Filter{Shift: "A"}}, b, render.NewPNGRenderer(fs, 1100, 850), nil)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndex_RendersRows(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeBuilder{})

	rec := get(t, s, "/?line=L1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	for _, want := range []string{"- C1 | Tornillo (x0 PZ)", "Golpe", `value="L1"`, "/page/1?line=L1"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index missing %q:\n%s", want, body)
		}
	}

	rec = get(t, s, "/?part=none")
	if !strings.Contains(rec.Body.String(), "Nada que imprimir") {
		t.Fatalf("empty report body:\n%s", rec.Body)
	}
}

func TestAPIReport_FilterFromQuery(t *testing.T) {
	t.Parallel()
	b := &fakeBuilder{}
	s := newTestServer(t, b)

	for _, target := range []string{"/api/report", "/api/report?shift=&line=L2&part=P9"} {
		rec := get(t, s, target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status=%d", target, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content type %q", ct)
		}
		var res report.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(res.Rows) != 1 || res.Rows[0].Count != 2 {
			t.Fatalf("rows = %+v", res.Rows)
		}
	}

	want := []records.Filter{{Shift: "A"}, {Line: "L2", PartNumber: "P9"}}
	if diff := cmp.Diff(want, b.seen); diff != "" {
		t.Fatalf("filters (-want +got):\n%s", diff)
	}
}

func TestPage_PNG(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeBuilder{})

	rec := get(t, s, "/page/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body)
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 550 || b.Dy() != 425 {
		t.Fatalf("image %dx%d, want 550x425", b.Dx(), b.Dy())
	}

	for target, code := range map[string]int{
		"/page/2":   http.StatusNotFound,
		"/page/0":   http.StatusBadRequest,
		"/page/abc": http.StatusBadRequest,
	} {
		if rec := get(t, s, target); rec.Code != code {
			t.Fatalf("%s: status=%d want %d", target, rec.Code, code)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeBuilder{err: errors.New("db down")})
	if rec := get(t, s, "/api/report"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500", rec.Code)
	}

	s = newTestServer(t, &fakeBuilder{err: report.ErrTooManyRows})
	if rec := get(t, s, "/"); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d want 422", rec.Code)
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	t.Parallel()
	s := NewServer(Config{Addr: "127.0.0.1:0"}, &fakeBuilder{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("ListenAndServe: %v", err)
	}
}
