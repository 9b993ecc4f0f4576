package board

import "SketchBoard/internal/state"

// Buttons is the bitmask of pointer buttons held during an event.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonAuxiliary
)

// PointerEvent is a pointer sample in client coordinates, i.e. relative to
// the window rather than to the surface.
type PointerEvent struct {
	PointerID int
	ClientX   float64
	ClientY   float64
	Buttons   Buttons
}

// SetBounds records where the surface sits in client coordinates.
func (b *Board) SetBounds(r state.Rect) {
	b.mu.Lock()
	b.bounds = r
	b.mu.Unlock()
}

func (b *Board) local(ev PointerEvent) state.Point {
	return state.NewPoint(ev.ClientX-b.bounds.X, ev.ClientY-b.bounds.Y)
}

// PointerDown captures the pointer and starts a new stroke in the current
// ink colour.
func (b *Board) PointerDown(ev PointerEvent) {
	b.mu.Lock()
	b.captured, b.capturing = ev.PointerID, true
	op := b.canvas.Begin(b.local(ev), b.ink())
	b.repaintLocked()
	b.mu.Unlock()

	b.changed(op)
}

// PointerMove appends a point to the stroke being drawn. Moves without
// exactly the primary button held are hover and are ignored; it reports
// whether the move was drawn.
func (b *Board) PointerMove(ev PointerEvent) bool {
	if ev.Buttons != ButtonPrimary {
		return false
	}
	b.mu.Lock()
	op, ok := b.canvas.Append(b.local(ev))
	if !ok {
		b.mu.Unlock()
		return false
	}
	b.repaintLocked()
	b.mu.Unlock()

	b.changed(op)
	return true
}

// PointerUp releases the capture; the next PointerDown starts a new stroke.
func (b *Board) PointerUp(ev PointerEvent) {
	b.release(ev.PointerID)
}

// LostCapture is PointerUp for pointers taken away by the platform.
func (b *Board) LostCapture(pointerID int) {
	b.release(pointerID)
}

func (b *Board) release(pointerID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.capturing && b.captured == pointerID {
		b.capturing = false
		b.canvas.End()
	}
}
