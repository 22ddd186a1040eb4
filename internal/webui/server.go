// Package webui serves the boleta over HTTP: an HTML view with a filter
// form, the report as JSON, and each laid-out page as a PNG.
//
// Routes:
//
//	GET /                 → filter form and boleta rows
//	GET /api/report       → report.Result as JSON
//	GET /page/{n}         → page n (1-based) as image/png
//
// Every route reads the filter from the shift, line and part query
// parameters. Repeated requests with the same filter reuse the service's
// memoized layout while the log is unchanged.
package webui

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/logger"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/render"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/report"
)

// Config controls server startup.
type Config struct {
	Addr string
	// Defaults fills query parameters a request leaves out.
	Defaults records.Filter
}

// Builder builds a boleta for a filter; *report.Service implements it.
type Builder interface {
	Build(ctx context.Context, f records.Filter) (*report.Result, error)
}

// Server wraps http.Server for convenience.
type Server struct {
	cfg      Config
	mux      *http.ServeMux
	tmpl     *template.Template
	builder  Builder
	renderer *render.PNGRenderer
	log      *logger.Logger
}

// NewServer constructs a Server with routes and the embedded template.
func NewServer(cfg Config, b Builder, r *render.PNGRenderer, lg *logger.Logger) *Server {
	if lg == nil {
		lg = logger.Nop()
	}
	s := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		tmpl:     template.Must(template.New("index").Parse(indexHTML)),
		builder:  b,
		renderer: r,
		log:      lg,
	}
	s.routes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/report", s.handleAPIReport)
	s.mux.HandleFunc("GET /page/{n}", s.handlePage)
}

// filter reads the filter from the query, falling back to the defaults for
// absent parameters. An explicitly empty parameter clears the default.
func (s *Server) filter(r *http.Request) records.Filter {
	q := r.URL.Query()
	f := s.cfg.Defaults
	if q.Has("shift") {
		f.Shift = strings.TrimSpace(q.Get("shift"))
	}
	if q.Has("line") {
		f.Line = strings.TrimSpace(q.Get("line"))
	}
	if q.Has("part") {
		f.PartNumber = strings.TrimSpace(q.Get("part"))
	}
	return f
}

func (s *Server) build(w http.ResponseWriter, r *http.Request) (*report.Result, bool) {
	res, err := s.builder.Build(r.Context(), s.filter(r))
	if err != nil {
		s.log.Warn("build failed", "path", r.URL.Path, "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, report.ErrTooManyRows) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, "build failed: "+err.Error(), status)
		return nil, false
	}
	return res, true
}

// handleIndex renders the form and the rows of the current filter.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	res, ok := s.build(w, r)
	if !ok {
		return
	}
	data := struct {
		Filter records.Filter
		Result *report.Result
		Query  template.URL
	}{Filter: res.Filter, Result: res, Query: template.URL(r.URL.RawQuery)}
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error("template error", "err", err)
	}
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.build(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.log.Warn("encode report", "err", err)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(strings.TrimSuffix(r.PathValue("n"), ".png"))
	if err != nil || n < 1 {
		http.Error(w, "bad page number", http.StatusBadRequest)
		return
	}
	res, ok := s.build(w, r)
	if !ok {
		return
	}
	if n > len(res.Pages) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := s.renderer.Encode(w, res.Pages[n-1]); err != nil {
		s.log.Warn("encode page", "page", n, "err", err)
	}
}

// indexHTML is an embedded, minimal page.
//
//go:embed index.tmpl.html
var indexHTML string
