package state

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Canvas is the ordered stroke buffer. Insertion order is paint order.
// Local strokes are created by Begin and grown by Append; strokes from
// shared-session peers arrive through Apply.
type Canvas struct {
	site    string
	clock   Clock
	strokes []*Stroke
	index   map[string]*Stroke
	active  *Stroke // local stroke receiving Append
	seen    map[string]uint64
	log     *slog.Logger
	mu      sync.RWMutex
}

// NewCanvas creates an empty stroke buffer owned by site.
func NewCanvas(site string) *Canvas {
	if site == "" {
		site = NewSiteID()
	}
	return &Canvas{
		site:  site,
		index: make(map[string]*Stroke),
		seen:  make(map[string]uint64),
		log:   slog.Default().With("component", "canvas"),
	}
}

// Site returns the id stamped on this canvas's ops.
func (c *Canvas) Site() string {
	return c.site
}

// Begin pushes a new local stroke holding p and makes it the active stroke.
func (c *Canvas) Begin(p Point, color string) Op {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &Stroke{
		ID:     uuid.NewString(),
		Owner:  c.site,
		Points: []Point{p},
		Color:  color,
	}
	c.push(s)
	c.active = s

	snap := s.clone()
	return c.stamp(Op{Type: OpBeginStroke, Stroke: &snap})
}

// Append adds p to the active local stroke. It reports false when no stroke
// has been started or the active stroke was removed.
func (c *Canvas) Append(p Point) (Op, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return Op{}, false
	}
	c.active.Points = append(c.active.Points, p)
	pt := p
	return c.stamp(Op{Type: OpAppendPoint, StrokeID: c.active.ID, Point: &pt}), true
}

// End stops appending to the active stroke.
func (c *Canvas) End() {
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
}

// Clear drops every stroke.
func (c *Canvas) Clear() Op {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.strokes = nil
	c.index = make(map[string]*Stroke)
	c.active = nil
	return c.stamp(Op{Type: OpClear, OwnerID: c.site})
}

// Apply merges an op received from a peer. It returns true when the canvas
// changed and needs a repaint. Ops from this site and replays are ignored.
func (c *Canvas) Apply(op Op) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if op.Site == c.site {
		return false
	}
	if last, ok := c.seen[op.Site]; ok && op.Lamport <= last {
		c.log.Debug("dropping replayed op", "site", op.Site, "lamport", op.Lamport)
		return false
	}
	c.seen[op.Site] = op.Lamport
	c.clock.Witness(op.Lamport)

	switch op.Type {
	case OpBeginStroke:
		if op.Stroke == nil {
			return false
		}
		if _, exists := c.index[op.Stroke.ID]; exists {
			return false
		}
		s := op.Stroke.clone()
		if s.Owner == "" {
			s.Owner = op.Site
		}
		c.push(&s)
		c.log.Debug("remote stroke added", "id", s.ID, "site", op.Site)
		return true
	case OpAppendPoint:
		s, ok := c.index[op.StrokeID]
		if !ok || op.Point == nil {
			return false
		}
		s.Points = append(s.Points, *op.Point)
		return true
	case OpClear:
		owner := op.OwnerID
		if owner == "" {
			owner = op.Site
		}
		return c.removeOwner(owner) > 0
	}
	return false
}

// Strokes returns a deep copy of the buffer in paint order.
func (c *Canvas) Strokes() []Stroke {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Stroke, 0, len(c.strokes))
	for _, s := range c.strokes {
		out = append(out, s.clone())
	}
	return out
}

// Len returns the number of strokes.
func (c *Canvas) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.strokes)
}

func (c *Canvas) push(s *Stroke) {
	c.strokes = append(c.strokes, s)
	c.index[s.ID] = s
}

func (c *Canvas) removeOwner(owner string) int {
	kept := c.strokes[:0]
	removed := 0
	for _, s := range c.strokes {
		if s.Owner == owner {
			delete(c.index, s.ID)
			if c.active == s {
				c.active = nil
			}
			removed++
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(c.strokes); i++ {
		c.strokes[i] = nil
	}
	c.strokes = kept
	if removed > 0 {
		c.log.Info("cleared strokes by owner", "owner", owner, "removed", removed)
	}
	return removed
}

func (c *Canvas) stamp(op Op) Op {
	op.Lamport = c.clock.Tick()
	op.Site = c.site
	return op
}
