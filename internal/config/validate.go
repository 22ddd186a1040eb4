package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is printed but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "storage.db.dsn").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateConfig checks a decoded config without mutating it. Storage and
// BOM sections are only required to be complete when the source or the
// caller needs them; needDB and needBOM select that.
func ValidateConfig(c Config, needDB, needBOM bool) []Issue {
	var issues []Issue
	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{SeverityError, "job", "job must not be empty; it labels metrics and logs"})
	}
	issues = append(issues, validateSource(c.Source)...)
	issues = append(issues, validateParser(c.Parser)...)
	if needDB || c.Source.Kind == "db" {
		issues = append(issues, validateStorage(c.Storage)...)
	}
	if needBOM {
		issues = append(issues, validateBOM(c.BOM)...)
	}
	issues = append(issues, validateLayout(c.Layout)...)
	issues = append(issues, validateRuntime(c.Runtime)...)
	issues = append(issues, validateMetrics(c.Metrics)...)
	return issues
}

func validateSource(s Source) []Issue {
	switch s.Kind {
	case "":
		return []Issue{{SeverityError, "source.kind", "source.kind must not be empty"}}
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			return []Issue{{SeverityError, "source.file.path", "file source requires a non-empty path"}}
		}
	case "http":
		if !strings.HasPrefix(s.HTTP.URL, "http://") && !strings.HasPrefix(s.HTTP.URL, "https://") {
			return []Issue{{SeverityError, "source.http.url", fmt.Sprintf("http source requires an http(s) url, got %q", s.HTTP.URL)}}
		}
		if s.HTTP.InsecureSkipVerify {
			return []Issue{{SeverityWarning, "source.http.insecure_skip_verify", "TLS verification is disabled"}}
		}
	case "db":
	default:
		return []Issue{{SeverityError, "source.kind", fmt.Sprintf("unknown source kind %q; want file, http or db", s.Kind)}}
	}
	return nil
}

func validateParser(p Parser) []Issue {
	var issues []Issue
	if p.Kind != "csv" {
		issues = append(issues, Issue{SeverityError, "parser.kind", fmt.Sprintf("unsupported parser kind %q; want csv", p.Kind)})
	}
	if c := p.Options.String("comma", ","); len([]rune(c)) != 1 {
		issues = append(issues, Issue{SeverityError, "parser.options.comma", fmt.Sprintf("comma must be a single character, got %q", c)})
	}
	if raw, ok := p.Options["header_map"]; ok {
		if _, isMap := raw.(map[string]any); !isMap {
			issues = append(issues, Issue{SeverityWarning, "parser.options.header_map", "header_map is not an object and will be ignored"})
		}
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	switch s.Kind {
	case "":
		issues = append(issues, Issue{SeverityError, "storage.kind", "storage.kind must not be empty"})
	case "sqlite", "postgres", "mssql", "mysql":
	default:
		issues = append(issues, Issue{SeverityWarning, "storage.kind", fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind)})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "storage.db.dsn", "storage.db.dsn must not be empty"})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{SeverityError, "storage.db.table", "storage.db.table must not be empty"})
	}
	return issues
}

func validateBOM(b BOM) []Issue {
	var issues []Issue
	switch b.Driver {
	case "sqlserver", "sqlite":
	default:
		issues = append(issues, Issue{SeverityError, "bom.driver", fmt.Sprintf("unsupported bom driver %q; want sqlserver or sqlite", b.Driver)})
	}
	if strings.TrimSpace(b.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "bom.dsn", "bom.dsn must not be empty"})
	}
	if strings.TrimSpace(b.Table) == "" {
		issues = append(issues, Issue{SeverityError, "bom.table", "bom.table must not be empty"})
	}
	return issues
}

func validateLayout(l Layout) []Issue {
	var issues []Issue
	if l.PageWidth <= 0 || l.PageHeight <= 0 {
		issues = append(issues, Issue{SeverityError, "layout", fmt.Sprintf("page size %gx%g must be positive", l.PageWidth, l.PageHeight)})
	}
	if r := l.Content(); r.Width <= 0 || r.Height <= 0 {
		issues = append(issues, Issue{SeverityError, "layout.margin", fmt.Sprintf("margin %g leaves no printable area", l.Margin)})
	}
	if l.DPI <= 0 {
		issues = append(issues, Issue{SeverityError, "layout.dpi", "dpi must be positive"})
	}
	if l.MaxPages < 0 {
		issues = append(issues, Issue{SeverityError, "layout.max_pages", "max_pages must not be negative"})
	}
	if w := l.Geometry().ComponentsWidth(); w <= 0 && l.PageWidth > 0 {
		issues = append(issues, Issue{SeverityWarning, "layout.columns", "fixed columns leave no width for the components column"})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue
	if r.BatchSize <= 0 {
		issues = append(issues, Issue{SeverityWarning, "runtime.batch_size", fmt.Sprintf("batch_size=%d; non-positive batch sizes fall back to one row per batch", r.BatchSize)})
	}
	if r.ChannelBuffer < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.channel_buffer", "channel_buffer must not be negative"})
	}
	if r.RenderWorkers < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.render_workers", "render_workers must not be negative"})
	}
	if r.MaxRows < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.max_rows", "max_rows must not be negative"})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	switch m.Backend {
	case "", "none":
	case "pushgateway", "prometheus", "prom":
		if m.PushgatewayURL == "" {
			return []Issue{{SeverityError, "metrics.pushgateway_url", "pushgateway backend requires a url"}}
		}
	case "datadog", "dogstatsd":
	default:
		return []Issue{{SeverityWarning, "metrics.backend", fmt.Sprintf("unknown metrics backend %q; metrics disabled", m.Backend)}}
	}
	return nil
}
