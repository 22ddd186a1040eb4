package render

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
	"golang.org/x/sync/errgroup"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/layout"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

// PNGRenderer rasterizes laid-out pages. Each Render call owns its context
// and faces, so one renderer can serve several goroutines.
type PNGRenderer struct {
	fonts      *FontSet
	pageWidth  float64
	pageHeight float64
}

// NewPNGRenderer returns a renderer for pages of the given size in page units.
func NewPNGRenderer(fs *FontSet, pageWidth, pageHeight float64) *PNGRenderer {
	return &PNGRenderer{fonts: fs, pageWidth: pageWidth, pageHeight: pageHeight}
}

// Size returns the pixel size of a rendered page.
func (r *PNGRenderer) Size() (int, int) {
	return int(math.Ceil(r.fonts.px(r.pageWidth))), int(math.Ceil(r.fonts.px(r.pageHeight)))
}

// Render draws p and returns the image.
func (r *PNGRenderer) Render(p layout.Page) image.Image {
	return r.draw(p).Image()
}

// Encode draws p and writes it as PNG.
func (r *PNGRenderer) Encode(w io.Writer, p layout.Page) error {
	return r.draw(p).EncodePNG(w)
}

func (r *PNGRenderer) draw(p layout.Page) *gg.Context {
	w, h := r.Size()
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	title := r.fonts.Face(layout.FontTitle)
	header := r.fonts.Face(layout.FontHeader)
	content := r.fonts.Face(layout.FontContent)
	px := r.fonts.px

	hd := p.Header
	if len(hd.Cols) == 0 {
		return dc
	}
	left := hd.Cols[0].X
	last := hd.Cols[len(hd.Cols)-1]
	right := last.X + last.Width

	dc.SetFontFace(title)
	dc.DrawStringAnchored(hd.Title, px(left), px(hd.TitleY), 0, 1)

	dc.SetFontFace(header)
	for _, c := range hd.Cols {
		r.cell(dc, c, hd.Y, hd.Height, func() {
			dc.DrawStringAnchored(c.Title, px(c.X), px(hd.Y), 0, 1)
		})
	}
	dc.SetLineWidth(1)
	dc.DrawLine(px(left), px(hd.Y+hd.Height), px(right), px(hd.Y+hd.Height))
	dc.Stroke()

	dc.SetFontFace(content)
	for _, e := range p.Entries {
		for _, c := range hd.Cols {
			text := cellText(e.Row, c.Key)
			r.cell(dc, c, e.Y, e.Height, func() {
				switch c.Key {
				case layout.ColComponents:
					dc.DrawStringWrapped(text, px(c.X), px(e.Y), 0, 0, px(c.Width), 1, gg.AlignLeft)
				case layout.ColQuantity:
					dc.DrawStringAnchored(text, px(c.X+c.Width/2), px(e.Y+e.Height/2), 0.5, 0.5)
				default:
					dc.DrawStringAnchored(text, px(c.X), px(e.Y), 0, 1)
				}
			})
		}
	}
	return dc
}

// cell clips drawing to the column rectangle.
func (r *PNGRenderer) cell(dc *gg.Context, c layout.Column, y, h float64, draw func()) {
	if c.Width <= 0 {
		return
	}
	px := r.fonts.px
	dc.DrawRectangle(px(c.X), px(y), px(c.Width), px(h))
	dc.Clip()
	draw()
	dc.ResetClip()
}

func cellText(row records.ReportRow, key layout.ColumnKey) string {
	switch key {
	case layout.ColShift:
		return row.ShiftText()
	case layout.ColLine:
		return row.Line
	case layout.ColPartNumber:
		return row.PartNumber
	case layout.ColDefect:
		return row.DefectDescription
	case layout.ColComponents:
		return row.ComponentsText
	case layout.ColQuantity:
		return humanize.Comma(int64(row.Count))
	}
	return ""
}

// PageFile is the file name of page n.
func PageFile(n int) string { return fmt.Sprintf("page-%03d.png", n) }

// RenderAll writes every page to dir as page-NNN.png using at most workers
// concurrent renders, and returns the paths in page order.
func RenderAll(ctx context.Context, r *PNGRenderer, pages []layout.Page, dir string, workers int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("render: create %s: %w", dir, err)
	}
	if workers <= 0 {
		workers = 1
	}

	paths := make([]string, len(pages))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pages {
		path := filepath.Join(dir, PageFile(p.Number))
		paths[i] = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writePage(r, p, path)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func writePage(r *PNGRenderer, p layout.Page, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: page %d: %w", p.Number, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("render: page %d: %w", p.Number, cerr)
		}
	}()
	if err := r.Encode(f, p); err != nil {
		return fmt.Errorf("render: page %d: encode: %w", p.Number, err)
	}
	return nil
}
