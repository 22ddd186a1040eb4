package layout

import "errors"

var (
	// ErrInvalidGeometry reports a content rectangle with no usable area or
	// a missing measurer. It is a caller error, not a data problem.
	ErrInvalidGeometry = errors.New("layout: invalid page geometry")

	// ErrTooManyPages reports a layout that exceeds Geometry.MaxPages.
	ErrTooManyPages = errors.New("layout: page limit exceeded")
)

// Font selects the text style a measurement or draw call refers to.
type Font int

const (
	FontTitle Font = iota
	FontHeader
	FontContent
)

func (f Font) String() string {
	switch f {
	case FontTitle:
		return "title"
	case FontHeader:
		return "header"
	case FontContent:
		return "content"
	}
	return "unknown"
}

// Measurer is the text-measurement capability supplied by the renderer.
type Measurer interface {
	// LineHeight returns the height of a single line of text in font f.
	LineHeight(f Font) float64
	// Measure returns the height needed to draw text word-wrapped at maxWidth.
	Measure(text string, maxWidth float64, f Font) float64
}

// Rect is an axis-aligned rectangle in page units.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Columns holds the five fixed column widths. The components column takes
// whatever width remains.
type Columns struct {
	Shift      float64 `json:"shift" yaml:"shift"`
	Line       float64 `json:"line" yaml:"line"`
	PartNumber float64 `json:"part_number" yaml:"part_number"`
	Defect     float64 `json:"defect" yaml:"defect"`
	Quantity   float64 `json:"quantity" yaml:"quantity"`
}

// Fixed returns the sum of the fixed widths.
func (c Columns) Fixed() float64 {
	return c.Shift + c.Line + c.PartNumber + c.Defect + c.Quantity
}

// DefaultColumns returns the widths used on the printed boleta, in
// hundredths of an inch.
func DefaultColumns() Columns {
	return Columns{Shift: 45, Line: 90, PartNumber: 160, Defect: 200, Quantity: 60}
}

// DefaultTitle is the title printed at the top of every page.
const DefaultTitle = "Boleta de Rechazos"

// Geometry describes the printable area and the spacing rules.
type Geometry struct {
	Content Rect
	Columns Columns

	Title string

	// Gutter is subtracted from the components column width.
	Gutter float64
	// RowPadding is added to measured text heights.
	RowPadding float64
	// RowSpacing separates consecutive rows.
	RowSpacing float64
	// TitleSpacing separates the title from the header row.
	TitleSpacing float64
	// HeaderSpacing separates the header row from the first row.
	HeaderSpacing float64

	// MaxPages bounds Paginate; zero means no bound.
	MaxPages int
}

// DefaultGeometry returns the print spacing rules for the given content
// rectangle.
func DefaultGeometry(content Rect) Geometry {
	return Geometry{
		Content:       content,
		Columns:       DefaultColumns(),
		Title:         DefaultTitle,
		Gutter:        8,
		RowPadding:    4,
		RowSpacing:    4,
		TitleSpacing:  6,
		HeaderSpacing: 3,
	}
}

// ComponentsWidth returns the width left for the wrapped components column,
// never negative.
func (g Geometry) ComponentsWidth() float64 {
	w := g.Content.Width - g.Columns.Fixed() - g.Gutter
	if w < 0 {
		return 0
	}
	return w
}

func (g Geometry) validate() error {
	if g.Content.Width <= 0 || g.Content.Height <= 0 {
		return ErrInvalidGeometry
	}
	return nil
}
