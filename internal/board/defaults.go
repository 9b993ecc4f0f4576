package board

import (
	"image"
	"math"

	"SketchBoard/internal/render"
	"SketchBoard/internal/state"
)

// DefaultImage renders the picture a board shows before anything has been
// saved: a small house under a sun, scaled to the surface.
func DefaultImage(width, height int) *image.RGBA {
	c := render.NewCompositor(width, height, render.DefaultBrush())
	c.Repaint(defaultStrokes(float64(width), float64(height)))
	out := image.NewRGBA(c.Bounds())
	copy(out.Pix, c.Surface().Pix)
	return out
}

func defaultStrokes(w, h float64) []state.Stroke {
	at := func(fx, fy float64) state.Point { return state.NewPoint(fx*w, fy*h) }
	line := func(color string, corners ...state.Point) state.Stroke {
		var pts []state.Point
		for i := 1; i < len(corners); i++ {
			pts = append(pts, segment(corners[i-1], corners[i], 4)...)
		}
		pts = append(pts, corners[len(corners)-1])
		return state.Stroke{ID: "default", Points: pts, Color: color}
	}

	sun := make([]state.Point, 0, 33)
	for i := 0; i <= 32; i++ {
		a := 2 * math.Pi * float64(i) / 32
		sun = append(sun, at(0.8+0.08*math.Cos(a), 0.2+0.08*math.Sin(a)))
	}

	return []state.Stroke{
		line("#000000", at(0.25, 0.5), at(0.25, 0.85), at(0.65, 0.85), at(0.65, 0.5), at(0.25, 0.5)),
		line("#c0392b", at(0.2, 0.52), at(0.45, 0.3), at(0.7, 0.52)),
		line("#000000", at(0.4, 0.85), at(0.4, 0.68), at(0.5, 0.68), at(0.5, 0.85)),
		{ID: "default-sun", Points: sun, Color: "#f1c40f"},
	}
}

// segment samples the straight line a→b every step pixels, excluding b.
func segment(a, b state.Point, step float64) []state.Point {
	n := max(1, int(math.Hypot(b.X-a.X, b.Y-a.Y)/step))
	out := make([]state.Point, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		out = append(out, state.NewPoint(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t))
	}
	return out
}
