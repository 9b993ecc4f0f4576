package render

import (
	"math"

	"SketchBoard/internal/state"
)

// Brush controls how a stroke's points are turned into an outline.
type Brush struct {
	// Size is the nominal diameter of the ink in pixels.
	Size float64
	// Thinning scales the radius by pressure; 0 gives a constant size/2.
	Thinning float64
	// Smoothing is the minimum spacing between outline points, as a
	// fraction of Size.
	Smoothing float64
	// Streamline pulls each sample towards the previous one, 0..1.
	Streamline float64
}

// DefaultBrush is the brush every stroke is drawn with.
func DefaultBrush() Brush {
	return Brush{Size: 4, Thinning: 0.5, Smoothing: 0.5, Streamline: 0.5}
}

// A hair over π keeps the rotated cap points from landing exactly on the
// side points they close against.
const fixedPi = math.Pi + 0.0001

type strokePoint struct {
	point         Vec
	pressure      float64
	vector        Vec // unit direction back towards the previous point
	distance      float64
	runningLength float64
}

// Outline converts a stroke's samples into the boundary of its inked area,
// ready to be compiled and filled. The result is a closed polygon (the last
// point connects back to the first). A single sample yields a dot. An empty
// input yields an empty outline.
func Outline(points []state.Point, b Brush) []Vec {
	return outlinePoints(strokePoints(points, b), b)
}

func strokePoints(in []state.Point, b Brush) []strokePoint {
	if len(in) == 0 {
		return nil
	}
	t := 0.15 + (1-b.Streamline)*0.85

	type sample struct {
		v        Vec
		pressure float64
	}
	pts := make([]sample, 0, len(in)+3)
	for _, p := range in {
		pts = append(pts, sample{Vec{p.X, p.Y}, p.Pressure})
	}

	switch len(pts) {
	case 1:
		pts = append(pts, sample{pts[0].v.Add(Vec{1, 1}), pts[0].pressure})
	case 2:
		// Interpolate so that a two-sample stroke still gets smoothed.
		last := pts[1]
		pts = pts[:1]
		for i := 1; i < 5; i++ {
			pts = append(pts, sample{pts[0].v.Lerp(last.v, float64(i)/4), last.pressure})
		}
	}

	out := []strokePoint{{
		point:    pts[0].v,
		pressure: pressureOr(pts[0].pressure, 0.25),
		vector:   Vec{1, 1},
	}}
	prev := out[0]
	reachedMin := false
	running := 0.0
	maxIdx := len(pts) - 1
	for i := 1; i <= maxIdx; i++ {
		point := prev.point.Lerp(pts[i].v, t)
		if point == prev.point {
			continue
		}
		dist := point.Dist(prev.point)
		running += dist
		if i < maxIdx && !reachedMin {
			if running < b.Size {
				continue
			}
			reachedMin = true
		}
		prev = strokePoint{
			point:         point,
			pressure:      pressureOr(pts[i].pressure, 0.5),
			vector:        prev.point.Sub(point).Unit(),
			distance:      dist,
			runningLength: running,
		}
		out = append(out, prev)
	}
	if len(out) > 1 {
		out[0].vector = out[1].vector
	} else {
		out[0].vector = Vec{}
	}
	return out
}

func pressureOr(p, fallback float64) float64 {
	if p > 0 {
		return p
	}
	return fallback
}

func strokeRadius(b Brush, pressure float64) float64 {
	if b.Thinning == 0 {
		return b.Size / 2
	}
	return b.Size * (0.5 - b.Thinning*(0.5-pressure))
}

func outlinePoints(points []strokePoint, b Brush) []Vec {
	if len(points) == 0 || b.Size <= 0 {
		return nil
	}
	n := len(points)
	total := points[n-1].runningLength
	minDist := math.Pow(b.Size*b.Smoothing, 2)

	var left, right []Vec
	radius := strokeRadius(b, points[n-1].pressure)
	firstRadius := -1.0
	prevVector := points[0].vector
	pl, pr := points[0].point, points[0].point
	prevSharp := false

	for i, sp := range points {
		// Samples bunched up at the very end are pointer jitter.
		if i < n-1 && total-sp.runningLength < 3 {
			continue
		}
		radius = max(0.01, strokeRadius(b, sp.pressure))
		if firstRadius < 0 {
			firstRadius = radius
		}

		nextVector := sp.vector
		nextDpr := 1.0
		if i < n-1 {
			nextVector = points[i+1].vector
			nextDpr = sp.vector.Dot(nextVector)
		}
		prevDpr := sp.vector.Dot(prevVector)
		sharp := prevDpr < 0 && !prevSharp
		nextSharp := nextDpr < 0

		if sharp || nextSharp {
			// Turn a hairpin with a half circle on both sides.
			offset := prevVector.Perp().Mul(radius)
			var tl, tr Vec
			for step := 0; step <= 13; step++ {
				t := float64(step) / 13
				tl = sp.point.Sub(offset).RotateAround(sp.point, fixedPi*t)
				left = append(left, tl)
				tr = sp.point.Add(offset).RotateAround(sp.point, -fixedPi*t)
				right = append(right, tr)
			}
			pl, pr = tl, tr
			if nextSharp {
				prevSharp = true
			}
			continue
		}
		prevSharp = false

		if i == n-1 {
			offset := sp.vector.Perp().Mul(radius)
			left = append(left, sp.point.Sub(offset))
			right = append(right, sp.point.Add(offset))
			continue
		}

		offset := nextVector.Lerp(sp.vector, nextDpr).Perp().Mul(radius)
		if tl := sp.point.Sub(offset); i <= 1 || pl.Dist2(tl) > minDist {
			left = append(left, tl)
			pl = tl
		}
		if tr := sp.point.Add(offset); i <= 1 || pr.Dist2(tr) > minDist {
			right = append(right, tr)
			pr = tr
		}
		prevVector = sp.vector
	}
	if firstRadius < 0 {
		firstRadius = radius
	}

	first := points[0].point
	last := first.Add(Vec{1, 1})
	if n > 1 {
		last = points[n-1].point
	}

	if n == 1 || len(left) == 0 || len(right) == 0 {
		return dot(first, last, firstRadius)
	}

	// Round cap at the start, swinging from the right side to the left.
	var startCap []Vec
	for step := 1; step <= 13; step++ {
		startCap = append(startCap, right[0].RotateAround(first, fixedPi*float64(step)/13))
	}

	// Round cap at the end.
	direction := points[n-1].vector.Neg().Perp()
	start := last.Add(direction.Mul(radius))
	var endCap []Vec
	for step := 1; step < 29; step++ {
		endCap = append(endCap, start.RotateAround(last, fixedPi*3*float64(step)/29))
	}

	out := make([]Vec, 0, len(left)+len(endCap)+len(right)+len(startCap))
	out = append(out, left...)
	out = append(out, endCap...)
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	out = append(out, startCap...)
	return out
}

func dot(center, toward Vec, radius float64) []Vec {
	dir := center.Sub(toward).Perp().Unit()
	if dir == (Vec{}) {
		dir = Vec{1, 0}
	}
	start := center.Add(dir.Mul(-radius))
	out := make([]Vec, 0, 13)
	for step := 1; step <= 13; step++ {
		out = append(out, start.RotateAround(center, fixedPi*2*float64(step)/13))
	}
	return out
}
