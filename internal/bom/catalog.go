// Package bom reads the bill-of-materials catalog and turns a material's
// component list into rejection-log lines.
package bom

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/shopspring/decimal"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/config"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/ddl"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage"
)

// Line is one component of a material.
type Line struct {
	Component   string          `json:"component"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// Catalog queries a BOM table with columns Material, Component,
// MaterialDescription, ComponentQuantity and ComponentUnity.
type Catalog struct {
	db      *sql.DB
	table   string
	dialect ddl.Dialect
	ph      storage.Placeholder
}

// Open connects to the catalog described by cfg. Supported drivers are
// "sqlserver" and "sqlite".
func Open(ctx context.Context, cfg config.BOM) (*Catalog, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("bom: open %s: %w", cfg.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bom: ping: %w", err)
	}
	c, err := New(db, cfg.Driver, cfg.Table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// New wraps an open handle. driver selects quoting and placeholders.
func New(db *sql.DB, driver, table string) (*Catalog, error) {
	c := &Catalog{db: db, table: table}
	switch driver {
	case "sqlserver":
		c.dialect = ddl.Dialect{Name: driver, QuoteIdent: ddl.Bracket}
		c.ph = storage.AtP
	case "sqlite":
		c.dialect = ddl.Dialect{Name: driver, QuoteIdent: ddl.DoubleQuote}
		c.ph = storage.QuestionMark
	default:
		return nil, fmt.Errorf("bom: unsupported driver %q", driver)
	}
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("bom: table must not be empty")
	}
	return c, nil
}

// Close releases the connection pool.
func (c *Catalog) Close() error { return c.db.Close() }

func (c *Catalog) col(name string) string { return c.dialect.QuoteIdent(name) }

// Components returns the component lines of material in catalog order.
// Lines without a unit are skipped; units are trimmed. A NULL or unparsable
// quantity reads as zero.
func (c *Catalog) Components(ctx context.Context, material string) ([]Line, error) {
	q := fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s WHERE %s = %s",
		c.col("Component"), c.col("MaterialDescription"), c.col("ComponentQuantity"), c.col("ComponentUnity"),
		c.dialect.QuoteFQN(c.table), c.col("Material"), c.ph(1))

	rows, err := c.db.QueryContext(ctx, q, material)
	if err != nil {
		return nil, fmt.Errorf("bom: query components of %q: %w", material, err)
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var comp, desc, qty, unit sql.NullString
		if err := rows.Scan(&comp, &desc, &qty, &unit); err != nil {
			return nil, fmt.Errorf("bom: scan: %w", err)
		}
		u := strings.TrimSpace(unit.String)
		if u == "" {
			continue
		}
		d, _ := records.ParseQuantity(qty.String)
		out = append(out, Line{Component: comp.String, Description: desc.String, Quantity: d, Unit: u})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bom: query components of %q: %w", material, err)
	}
	return out, nil
}

// HasBOM reports whether material has at least one catalog row, which makes
// it a sub-assembly that can be drilled into.
func (c *Catalog) HasBOM(ctx context.Context, material string) (bool, error) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = %s",
		c.dialect.QuoteFQN(c.table), c.col("Material"), c.ph(1))
	var n int64
	if err := c.db.QueryRowContext(ctx, q, material).Scan(&n); err != nil {
		return false, fmt.Errorf("bom: count %q: %w", material, err)
	}
	return n > 0, nil
}
