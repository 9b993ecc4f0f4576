// Package export writes sketches out of the application.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"SketchBoard/internal/render"
	"SketchBoard/internal/state"
)

// Sketch is what gets exported.
type Sketch struct {
	Width, Height int
	// Base is the restored or imported picture under the strokes, or nil.
	Base    image.Image
	Strokes []state.Stroke
	Brush   render.Brush
}

// DefaultPadding is the margin kept around the strokes when cropping.
const DefaultPadding = 16

// Options tune the export.
type Options struct {
	// Crop trims the page to the strokes' bounding box plus Padding, kept
	// inside the surface. It is ignored when there are no strokes.
	Crop    bool
	Padding float64
}

// PDF writes the sketch as a one-page PDF in surface pixels (1px = 1pt):
// the base picture as an embedded JPEG, then every stroke outline as a
// filled polygon in paint order.
func PDF(w io.Writer, s Sketch, opts Options) error {
	page := state.Rect{Width: float64(s.Width), Height: float64(s.Height)}
	if opts.Crop {
		if b, ok := state.StrokeBounds(s.Strokes, opts.Padding); ok {
			if b, ok = b.Intersect(page); ok {
				page = b
			}
		}
	}

	p := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	if s.Base != nil {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, s.Base, &jpeg.Options{Quality: 90}); err != nil {
			return fmt.Errorf("encode base picture: %w", err)
		}
		opt := gofpdf.ImageOptions{ImageType: "JPG"}
		p.RegisterImageOptionsReader("base", opt, &buf)
		p.ImageOptions("base", -page.X, -page.Y, float64(s.Width), float64(s.Height), false, opt, 0, "")
	}

	brush := s.Brush
	if brush.Size <= 0 {
		brush = render.DefaultBrush()
	}
	for _, st := range s.Strokes {
		outline := render.Outline(st.Points, brush)
		if len(outline) == 0 {
			continue
		}
		col, _ := render.ParseColor(st.Color) // unknown colours export black
		p.SetFillColor(int(col.R), int(col.G), int(col.B))
		pts := make([]gofpdf.PointType, len(outline))
		for i, v := range outline {
			pts[i] = gofpdf.PointType{X: v.X - page.X, Y: v.Y - page.Y}
		}
		p.Polygon(pts, "F")
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// PDFFile writes the sketch to path.
func PDFFile(path string, s Sketch, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := PDF(f, s, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
