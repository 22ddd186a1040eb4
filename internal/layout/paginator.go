// Package layout places boleta rows on fixed-size pages.
//
// Rows are laid out greedily, top to bottom, below a title and a header row
// that repeat on every page. A row is never split: when it does not fit in
// the space left on the current page the page is closed and the row opens
// the next one. A row taller than a whole page is placed alone and allowed
// to overflow.
//
// A Paginator holds no iteration state. Callers walk the pages with an
// explicit Cursor (Start, Next), range over Pages, or collect everything with
// Paginate. Starting a new report means starting from a new Cursor.
package layout

import (
	"fmt"
	"iter"
	"math"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

// ColumnKey identifies a report column.
type ColumnKey string

const (
	ColShift      ColumnKey = "shift"
	ColLine       ColumnKey = "line"
	ColPartNumber ColumnKey = "part_number"
	ColDefect     ColumnKey = "defect"
	ColComponents ColumnKey = "components"
	ColQuantity   ColumnKey = "quantity"
)

// Column is one header cell with its horizontal placement.
type Column struct {
	Key   ColumnKey `json:"key"`
	Title string    `json:"title"`
	X     float64   `json:"x"`
	Width float64   `json:"width"`
}

// Header holds the draw instructions repeated at the top of every page.
type Header struct {
	Title  string   `json:"title"`
	TitleY float64  `json:"title_y"`
	Y      float64  `json:"y"`
	Height float64  `json:"height"`
	Cols   []Column `json:"columns"`
}

// Entry is a row placed on a page.
type Entry struct {
	Index  int               `json:"index"`
	Row    records.ReportRow `json:"row"`
	Y      float64           `json:"y"`
	Height float64           `json:"height"`
}

// Page is one laid-out page. More reports whether further pages follow.
type Page struct {
	Number  int     `json:"number"`
	Header  Header  `json:"header"`
	Entries []Entry `json:"entries"`
	More    bool    `json:"more"`
}

// Cursor marks the position of a walk through a report: the next row to
// place and the number of pages already produced.
type Cursor struct {
	Row   int
	Pages int
}

// Paginator lays out a fixed sequence of rows.
type Paginator struct {
	rows       []records.ReportRow
	geo        Geometry
	m          Measurer
	header     Header
	lineHeight float64
	bodyTop    float64
	compWidth  float64
}

// New validates the geometry and prepares the header and column placement,
// which stay constant across pages.
func New(rows []records.ReportRow, geo Geometry, m Measurer) (*Paginator, error) {
	if err := geo.validate(); err != nil {
		return nil, fmt.Errorf("%w: content %gx%g", err, geo.Content.Width, geo.Content.Height)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: nil measurer", ErrInvalidGeometry)
	}

	p := &Paginator{
		rows:      rows,
		geo:       geo,
		m:         m,
		compWidth: geo.ComponentsWidth(),
	}
	p.lineHeight = math.Ceil(m.LineHeight(FontContent)) + geo.RowPadding

	top := geo.Content.Y
	headerY := top + m.LineHeight(FontTitle) + geo.TitleSpacing
	p.header = Header{
		Title:  geo.Title,
		TitleY: top,
		Y:      headerY,
		Height: p.lineHeight,
		Cols:   p.columns(),
	}
	p.bodyTop = headerY + p.lineHeight + geo.HeaderSpacing
	return p, nil
}

func (p *Paginator) columns() []Column {
	c := p.geo.Columns
	cols := []Column{
		{Key: ColShift, Title: "Turno", Width: c.Shift},
		{Key: ColLine, Title: "Linea", Width: c.Line},
		{Key: ColPartNumber, Title: "Numero de Parte", Width: c.PartNumber},
		{Key: ColDefect, Title: "Descripcion del Defecto", Width: c.Defect},
		{Key: ColComponents, Title: "Componentes (faltantes)", Width: p.compWidth},
		{Key: ColQuantity, Title: "Cantidad", Width: c.Quantity},
	}
	x := p.geo.Content.X
	for i := range cols {
		cols[i].X = x
		x += cols[i].Width
	}
	return cols
}

// ComponentsWidth is the wrap width used for the components column.
func (p *Paginator) ComponentsWidth() float64 { return p.compWidth }

// Header returns the header repeated on every page.
func (p *Paginator) Header() Header { return p.header }

// RowHeight returns the height assigned to row r.
func (p *Paginator) RowHeight(r records.ReportRow) float64 {
	h := math.Ceil(p.m.Measure(r.ComponentsText, p.compWidth, FontContent)) + p.geo.RowPadding
	return math.Max(p.lineHeight, h)
}

// Start returns the cursor of a fresh walk.
func (p *Paginator) Start() Cursor { return Cursor{} }

// Next builds the page that begins at c and returns it with the cursor for
// the following page. ok is false once every row has been placed; a report
// with no rows has no pages.
func (p *Paginator) Next(c Cursor) (page Page, next Cursor, ok bool) {
	if c.Row < 0 || c.Row >= len(p.rows) {
		return Page{}, c, false
	}

	page = Page{Number: c.Pages + 1, Header: p.header}
	bottom := p.geo.Content.Bottom()
	y := p.bodyTop
	i := c.Row
	for ; i < len(p.rows); i++ {
		h := p.RowHeight(p.rows[i])
		if y+h > bottom && len(page.Entries) > 0 {
			break
		}
		page.Entries = append(page.Entries, Entry{Index: i, Row: p.rows[i], Y: y, Height: h})
		y += h + p.geo.RowSpacing
	}
	page.More = i < len(p.rows)
	return page, Cursor{Row: i, Pages: c.Pages + 1}, true
}

// Pages returns the pages as a sequence. Every call starts a new walk.
func (p *Paginator) Pages() iter.Seq[Page] {
	return func(yield func(Page) bool) {
		c := p.Start()
		for {
			page, next, ok := p.Next(c)
			if !ok || !yield(page) {
				return
			}
			c = next
		}
	}
}

// Paginate lays out every row and enforces geo.MaxPages.
func Paginate(rows []records.ReportRow, geo Geometry, m Measurer) ([]Page, error) {
	p, err := New(rows, geo, m)
	if err != nil {
		return nil, err
	}
	var pages []Page
	for page := range p.Pages() {
		if geo.MaxPages > 0 && len(pages) == geo.MaxPages {
			return nil, fmt.Errorf("%w: more than %d pages for %d rows", ErrTooManyPages, geo.MaxPages, len(rows))
		}
		pages = append(pages, page)
	}
	return pages, nil
}
