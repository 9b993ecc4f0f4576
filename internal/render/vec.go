package render

import "math"

// Vec is a 2-D point or direction.
type Vec struct {
	X, Y float64
}

func (a Vec) Add(b Vec) Vec       { return Vec{a.X + b.X, a.Y + b.Y} }
func (a Vec) Sub(b Vec) Vec       { return Vec{a.X - b.X, a.Y - b.Y} }
func (a Vec) Mul(n float64) Vec   { return Vec{a.X * n, a.Y * n} }
func (a Vec) Neg() Vec            { return Vec{-a.X, -a.Y} }
func (a Vec) Dot(b Vec) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec) Len() float64        { return math.Hypot(a.X, a.Y) }
func (a Vec) Dist(b Vec) float64  { return a.Sub(b).Len() }
func (a Vec) Dist2(b Vec) float64 { d := a.Sub(b); return d.Dot(d) }

// Perp rotates a a quarter turn.
func (a Vec) Perp() Vec { return Vec{a.Y, -a.X} }

// Unit returns a scaled to length 1; the zero vector stays zero.
func (a Vec) Unit() Vec {
	l := a.Len()
	if l == 0 {
		return Vec{}
	}
	return a.Mul(1 / l)
}

// Lerp interpolates from a to b by t.
func (a Vec) Lerp(b Vec, t float64) Vec {
	return a.Add(b.Sub(a).Mul(t))
}

// RotateAround rotates a about c by r radians.
func (a Vec) RotateAround(c Vec, r float64) Vec {
	s, co := math.Sincos(r)
	p := a.Sub(c)
	return Vec{p.X*co - p.Y*s + c.X, p.X*s + p.Y*co + c.Y}
}

// Mid returns the midpoint of a and b.
func (a Vec) Mid(b Vec) Vec {
	return Vec{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}
