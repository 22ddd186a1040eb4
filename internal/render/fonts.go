// Package render measures and rasterizes boleta pages with gg.
//
// Page geometry is expressed in hundredths of an inch; a FontSet converts to
// pixels at its DPI. Font faces are not safe for concurrent use, so every
// page render builds its own faces and the shared Measurer serializes calls.
package render

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/layout"
)

// Point sizes of the printed boleta.
const (
	TitleSize   = 11
	HeaderSize  = 8.5
	ContentSize = 8.25
)

// FontSet holds the parsed regular and bold fonts and the output resolution.
type FontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
	dpi     float64
}

// LoadFonts parses the TTF files at regularPath and boldPath. An empty path
// selects the embedded Go font of that weight.
func LoadFonts(regularPath, boldPath string, dpi float64) (*FontSet, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("render: dpi must be > 0, got %g", dpi)
	}
	regular, err := parseFont(regularPath, goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := parseFont(boldPath, gobold.TTF)
	if err != nil {
		return nil, err
	}
	return &FontSet{regular: regular, bold: bold, dpi: dpi}, nil
}

func parseFont(path string, fallback []byte) (*truetype.Font, error) {
	b := fallback
	if path != "" {
		var err error
		if b, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("render: read font file: %w", err)
		}
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("render: parse TTF %q: %w", path, err)
	}
	return f, nil
}

// DPI returns the output resolution.
func (fs *FontSet) DPI() float64 { return fs.dpi }

// Face returns a new face for f. Callers own it and must not share it
// between goroutines.
func (fs *FontSet) Face(f layout.Font) font.Face {
	ttf, size := fs.regular, ContentSize
	switch f {
	case layout.FontTitle:
		ttf, size = fs.bold, TitleSize
	case layout.FontHeader:
		ttf, size = fs.bold, HeaderSize
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     fs.dpi,
		Hinting: font.HintingNone,
	})
}

// px converts page units to pixels.
func (fs *FontSet) px(u float64) float64 { return u * fs.dpi / 100 }

// units converts pixels to page units.
func (fs *FontSet) units(px float64) float64 { return px * 100 / fs.dpi }
