package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/layout"
)

// ErrUnknownFormat is returned for config files that are neither JSON nor YAML.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Load reads the file at path, decodes it by extension (.json, .yaml, .yml)
// and fills defaults.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	c, err := Decode(b, format)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Decode parses b as "json" or "yaml"/"yml" and fills defaults.
func Decode(b []byte, format string) (Config, error) {
	var c Config
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(b))
		if err := dec.Decode(&c); err != nil {
			return Config{}, fmt.Errorf("decode json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	c.ApplyDefaults()
	return c, nil
}

// Defaults returns a config that reads registros.csv and prints on a
// landscape letter page.
func Defaults() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills every zero value that has a default.
func (c *Config) ApplyDefaults() {
	if c.Job == "" {
		c.Job = "boleta"
	}
	if c.Source.Kind == "" {
		c.Source.Kind = "file"
	}
	if c.Source.Kind == "file" && c.Source.File.Path == "" {
		c.Source.File.Path = "registros.csv"
	}
	if c.Parser.Kind == "" {
		c.Parser.Kind = "csv"
	}
	if c.Parser.Options == nil {
		c.Parser.Options = Options{}
	}
	if c.Storage.Kind == "" {
		c.Storage.Kind = "sqlite"
	}
	if c.Storage.DB.Table == "" {
		c.Storage.DB.Table = "registros_rechazo"
	}
	if c.BOM.Driver == "" {
		c.BOM.Driver = "sqlserver"
	}
	if c.BOM.Table == "" {
		c.BOM.Table = "[dbo].[BOM]"
	}

	l := &c.Layout
	if l.PageWidth == 0 {
		l.PageWidth = 1100
	}
	if l.PageHeight == 0 {
		l.PageHeight = 850
	}
	if l.Margin == 0 {
		l.Margin = 30
	}
	if l.DPI == 0 {
		l.DPI = 100
	}
	if l.Title == "" {
		l.Title = layout.DefaultTitle
	}
	if l.Columns == (layout.Columns{}) {
		l.Columns = layout.DefaultColumns()
	}

	r := &c.Runtime
	if r.BatchSize == 0 {
		r.BatchSize = 500
	}
	if r.ChannelBuffer == 0 {
		r.ChannelBuffer = 1000
	}
	if r.RenderWorkers == 0 {
		r.RenderWorkers = 4
	}

	if c.Metrics.Backend == "" {
		c.Metrics.Backend = "none"
	}
	if c.Log.Mode == "" {
		c.Log.Mode = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ApplyEnv overrides metrics settings from METRICS_BACKEND, PUSHGATEWAY_URL
// and DD_AGENT_ADDR when they are set. lookup is os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("METRICS_BACKEND"); ok && v != "" {
		c.Metrics.Backend = strings.ToLower(v)
	}
	if v, ok := lookup("PUSHGATEWAY_URL"); ok && v != "" {
		c.Metrics.PushgatewayURL = v
	}
	if v, ok := lookup("DD_AGENT_ADDR"); ok && v != "" {
		c.Metrics.DatadogAddr = v
	}
}
