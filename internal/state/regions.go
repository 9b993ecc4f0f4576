package state

import "sync"

// Rect is an axis-aligned area in surface coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Union returns the smallest rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.X+r.Width, o.X+o.Width)
	maxY := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Intersect returns the overlap of r and o. ok is false when they do not
// overlap.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	minX := max(r.X, o.X)
	minY := max(r.Y, o.Y)
	maxX := min(r.X+r.Width, o.X+o.Width)
	maxY := min(r.Y+r.Height, o.Y+o.Height)
	if maxX <= minX || maxY <= minY {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// BoundsOf returns the bounding box of points grown by padding on every side.
// The second result is false when points is empty.
func BoundsOf(points []Point, padding float64) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return Rect{
		X:      minX - padding,
		Y:      minY - padding,
		Width:  maxX - minX + 2*padding,
		Height: maxY - minY + 2*padding,
	}, true
}

// StrokeBounds returns the padded bounding box of every stroke together.
func StrokeBounds(strokes []Stroke, padding float64) (Rect, bool) {
	var out Rect
	found := false
	for _, s := range strokes {
		b, ok := BoundsOf(s.Points, padding)
		if !ok {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

// Region is a labelled bounding box the model referred to in its response.
type Region struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Area  Rect   `json:"area"`
}

// Regions holds the overlay boxes of the current response.
type Regions struct {
	regions []Region
	mu      sync.RWMutex
}

// NewRegions returns an empty overlay.
func NewRegions() *Regions {
	return &Regions{}
}

// Set replaces the overlay boxes.
func (r *Regions) Set(regions []Region) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regions = append([]Region(nil), regions...)
}

// All returns a copy of the overlay boxes.
func (r *Regions) All() []Region {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Region, len(r.regions))
	copy(out, r.regions)
	return out
}

// Find looks a region up by id.
func (r *Regions) Find(id string) (Region, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, region := range r.regions {
		if region.ID == id {
			return region, true
		}
	}
	return Region{}, false
}

// At returns the ids of every region containing (x, y), topmost last.
func (r *Regions) At(x, y float64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for _, region := range r.regions {
		if region.Area.Contains(x, y) {
			ids = append(ids, region.ID)
		}
	}
	return ids
}
