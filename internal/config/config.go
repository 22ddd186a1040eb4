// Package config defines the configuration model for the boleta tools.
//
// A config file is JSON or YAML (selected by extension) and describes where
// the rejection log comes from, where it is stored, where the BOM catalog
// lives, which filter to apply and how pages are laid out. Zero values are
// filled by Defaults so a minimal file only names its source.
//
// Example (trimmed):
//
//	job: boleta-linea-3
//	source:  { kind: file, file: { path: registros.csv } }
//	parser:  { kind: csv, options: { comma: ";", header_map: { Tipo: origen } } }
//	storage: { kind: sqlite, db: { dsn: "file:scrap.db", table: registros } }
//	filter:  { shift: A, line: L3 }
package config

import (
	"encoding/json"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/layout"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

// Config is the top-level object decoded from a config file.
type Config struct {
	// Job labels metrics and log lines.
	Job string `json:"job" yaml:"job"`

	Source  Source         `json:"source" yaml:"source"`
	Parser  Parser         `json:"parser" yaml:"parser"`
	Storage Storage        `json:"storage" yaml:"storage"`
	BOM     BOM            `json:"bom" yaml:"bom"`
	Filter  records.Filter `json:"filter" yaml:"filter"`
	Layout  Layout         `json:"layout" yaml:"layout"`
	Runtime RuntimeConfig  `json:"runtime" yaml:"runtime"`
	Metrics Metrics        `json:"metrics" yaml:"metrics"`
	Log     Log            `json:"log" yaml:"log"`
}

// Source selects where report records are read from: a CSV file ("file"),
// a CSV export served over HTTP ("http") or the storage backend ("db").
type Source struct {
	Kind string     `json:"kind" yaml:"kind"`
	File SourceFile `json:"file" yaml:"file"`
	HTTP SourceHTTP `json:"http" yaml:"http"`
}

// SourceHTTP holds configuration for the "http" source kind.
type SourceHTTP struct {
	URL                string `json:"url" yaml:"url"`
	TimeoutSeconds     int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries         int    `json:"max_retries" yaml:"max_retries"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `json:"path" yaml:"path"`
}

// Parser selects how a file source is decoded. Options keys for csv:
// comma (string), header_map (object), strict (bool).
type Parser struct {
	Kind    string  `json:"kind" yaml:"kind"`
	Options Options `json:"options" yaml:"options"`
}

// Storage selects the backend that holds the rejection log.
type Storage struct {
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures a storage backend.
type DBConfig struct {
	DSN   string `json:"dsn" yaml:"dsn"`
	Table string `json:"table" yaml:"table"`

	// AutoCreateTable runs the backend DDL before the first write.
	AutoCreateTable bool `json:"auto_create_table" yaml:"auto_create_table"`
}

// BOM points at the bill-of-materials catalog.
type BOM struct {
	// Driver is a database/sql driver name: "sqlserver" or "sqlite".
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
	Table  string `json:"table" yaml:"table"`
}

// Layout describes the printed page in hundredths of an inch.
type Layout struct {
	PageWidth  float64 `json:"page_width" yaml:"page_width"`
	PageHeight float64 `json:"page_height" yaml:"page_height"`
	Margin     float64 `json:"margin" yaml:"margin"`
	// DPI converts page units to pixels when rendering.
	DPI   float64 `json:"dpi" yaml:"dpi"`
	Title string  `json:"title" yaml:"title"`

	FontPath     string `json:"font_path" yaml:"font_path"`
	BoldFontPath string `json:"bold_font_path" yaml:"bold_font_path"`

	Columns  layout.Columns `json:"columns" yaml:"columns"`
	MaxPages int            `json:"max_pages" yaml:"max_pages"`
}

// Content returns the printable rectangle inside the margins.
func (l Layout) Content() layout.Rect {
	return layout.Rect{
		X:      l.Margin,
		Y:      l.Margin,
		Width:  l.PageWidth - 2*l.Margin,
		Height: l.PageHeight - 2*l.Margin,
	}
}

// Geometry returns the paginator geometry for this layout.
func (l Layout) Geometry() layout.Geometry {
	g := layout.DefaultGeometry(l.Content())
	g.Columns = l.Columns
	if l.Title != "" {
		g.Title = l.Title
	}
	g.MaxPages = l.MaxPages
	return g
}

// RuntimeConfig controls batching and concurrency.
type RuntimeConfig struct {
	BatchSize     int `json:"batch_size" yaml:"batch_size"`
	ChannelBuffer int `json:"channel_buffer" yaml:"channel_buffer"`
	RenderWorkers int `json:"render_workers" yaml:"render_workers"`
	// MaxRows bounds the number of records a report may load; zero means no bound.
	MaxRows int `json:"max_rows" yaml:"max_rows"`
}

// Metrics selects a metrics backend: "none", "pushgateway" or "datadog".
type Metrics struct {
	Backend        string `json:"backend" yaml:"backend"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr" yaml:"datadog_addr"`
}

// Log configures the zap logger.
type Log struct {
	Mode  string `json:"mode" yaml:"mode"`
	Level string `json:"level" yaml:"level"`
}

// Options fetches typed values from a free-form map. It performs minimal
// coercion and returns the default when a key is absent or mistyped.
// JSON numbers arrive as float64, YAML numbers as int.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if b, ok := o[key].(bool); ok {
		return b
	}
	return def
}

// Int returns the int value for key or def.
func (o Options) Int(key string, def int) int {
	switch n := o[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return def
}

// Rune returns the first rune of a string value, or def when missing or empty.
func (o Options) Rune(key string, def rune) rune {
	if s, ok := o[key].(string); ok && len(s) > 0 {
		return []rune(s)[0]
	}
	return def
}

// StringMap returns the string-valued entries of an object value. It never
// returns nil.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if m, ok := o[key].(map[string]any); ok {
		for k, v := range m {
			if s, ok := v.(string); ok {
				res[k] = s
			}
		}
	}
	return res
}

// UnmarshalJSON decodes a missing or null object to an empty, non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
