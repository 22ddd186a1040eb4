package render

import (
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/layout"
)

// Measurer implements layout.Measurer with gg word wrapping. It is safe for
// concurrent use.
type Measurer struct {
	mu    sync.Mutex
	fonts *FontSet
	dc    *gg.Context
	faces map[layout.Font]font.Face
}

var _ layout.Measurer = (*Measurer)(nil)

// NewMeasurer returns a Measurer for fs.
func NewMeasurer(fs *FontSet) *Measurer {
	return &Measurer{
		fonts: fs,
		dc:    gg.NewContext(1, 1),
		faces: map[layout.Font]font.Face{},
	}
}

// use selects the face of f. Callers hold m.mu.
func (m *Measurer) use(f layout.Font) {
	face, ok := m.faces[f]
	if !ok {
		face = m.fonts.Face(f)
		m.faces[f] = face
	}
	m.dc.SetFontFace(face)
}

// LineHeight returns the height of one line of f in page units.
func (m *Measurer) LineHeight(f layout.Font) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.use(f)
	return m.fonts.units(m.dc.FontHeight())
}

// Measure returns the height of text word-wrapped at maxWidth page units.
// Newlines always break; empty text has no height.
func (m *Measurer) Measure(text string, maxWidth float64, f layout.Font) float64 {
	if text == "" {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.use(f)

	lines := strings.Count(text, "\n") + 1
	if maxWidth > 0 {
		lines = len(m.dc.WordWrap(text, m.fonts.px(maxWidth)))
	}
	return float64(lines) * m.fonts.units(m.dc.FontHeight())
}

// Width returns the unwrapped width of text in page units.
func (m *Measurer) Width(text string, f layout.Font) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.use(f)
	w, _ := m.dc.MeasureString(text)
	return m.fonts.units(w)
}
