package render

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"golang.org/x/image/vector"

	"SketchBoard/internal/state"
)

// Background is the colour every repaint starts from.
var Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Compositor owns the surface bitmap. Repaint always redraws the whole
// surface: background, then the base image, then every stroke in order.
// It is not safe for concurrent use; the board serialises access.
type Compositor struct {
	surface *image.RGBA
	base    *image.RGBA
	brush   Brush
	z       *vector.Rasterizer
	inks    map[string]*image.Uniform
	log     *slog.Logger
}

// NewCompositor creates a width × height surface filled with Background.
func NewCompositor(width, height int, brush Brush) *Compositor {
	c := &Compositor{
		surface: image.NewRGBA(image.Rect(0, 0, width, height)),
		brush:   brush,
		z:       vector.NewRasterizer(width, height),
		inks:    make(map[string]*image.Uniform),
		log:     slog.Default().With("component", "compositor"),
	}
	c.FillBackground()
	return c
}

// Bounds returns the surface rectangle.
func (c *Compositor) Bounds() image.Rectangle {
	return c.surface.Bounds()
}

// Surface returns the live bitmap. It changes on every repaint.
func (c *Compositor) Surface() *image.RGBA {
	return c.surface
}

// Brush returns the brush strokes are outlined with.
func (c *Compositor) Brush() Brush {
	return c.brush
}

// SetBase installs img as the layer painted under the strokes. img is
// copied; pixels outside the surface are dropped.
func (c *Compositor) SetBase(img image.Image) {
	base := image.NewRGBA(c.surface.Bounds())
	draw.Draw(base, base.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	draw.Draw(base, base.Bounds(), img, img.Bounds().Min, draw.Over)
	c.base = base
}

// BaseImage returns a copy of the base layer, or nil.
func (c *Compositor) BaseImage() *image.RGBA {
	if c.base == nil {
		return nil
	}
	out := image.NewRGBA(c.base.Bounds())
	copy(out.Pix, c.base.Pix)
	return out
}

// ClearBase removes the base layer.
func (c *Compositor) ClearBase() {
	c.base = nil
}

// HasBase reports whether a base layer is installed.
func (c *Compositor) HasBase() bool {
	return c.base != nil
}

// FillBackground paints the whole surface with Background.
func (c *Compositor) FillBackground() {
	draw.Draw(c.surface, c.surface.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
}

// Repaint redraws the full surface from the base layer and strokes.
func (c *Compositor) Repaint(strokes []state.Stroke) {
	if c.base != nil {
		copy(c.surface.Pix, c.base.Pix)
	} else {
		c.FillBackground()
	}
	for _, s := range strokes {
		c.fill(Compile(Outline(s.Points, c.brush)), c.ink(s.Color))
	}
}

func (c *Compositor) ink(hex string) *image.Uniform {
	if u, ok := c.inks[hex]; ok {
		return u
	}
	col, err := ParseColor(hex)
	if err != nil {
		c.log.Warn("falling back to black ink", "color", hex, "err", err)
		col = color.RGBA{A: 255}
	}
	u := image.NewUniform(col)
	c.inks[hex] = u
	return u
}

// fill rasterises p with the non-zero rule and composites src over the
// surface.
func (c *Compositor) fill(p Path, src image.Image) {
	if p.Empty() {
		return
	}
	b := c.surface.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
	c.z.DrawOp = draw.Over
	for _, cmd := range p.Cmds {
		switch cmd.Verb {
		case MoveTo:
			c.z.MoveTo(float32(cmd.To.X), float32(cmd.To.Y))
		case QuadTo:
			c.z.QuadTo(float32(cmd.Ctrl.X), float32(cmd.Ctrl.Y), float32(cmd.To.X), float32(cmd.To.Y))
		case Close:
			c.z.ClosePath()
		}
	}
	c.z.Draw(c.surface, b, src, image.Point{})
}
