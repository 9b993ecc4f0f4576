package annotate

import (
	"sync"

	"SketchBoard/internal/state"
)

// HoverSink receives the highlight the response view asks for.
type HoverSink interface {
	SetHover(state.Hover)
}

// Tracker turns pointer movement over the rendered response into overlay
// highlights. Its three handlers are only live between Acquire and the
// release function Acquire returns; events outside that scope are dropped.
type Tracker struct {
	sink     HoverSink
	acquired bool
	mu       sync.Mutex
}

// NewTracker creates a tracker reporting to sink.
func NewTracker(sink HoverSink) *Tracker {
	return &Tracker{sink: sink}
}

// Acquire installs the over, enter and leave handlers. The returned
// function removes all three; it is safe to call more than once and also
// resets the highlight.
func (t *Tracker) Acquire() (release func()) {
	t.mu.Lock()
	t.acquired = true
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			t.acquired = false
			t.mu.Unlock()
			t.sink.SetHover(state.Hover{Kind: state.HoverNone})
		})
	}
}

// Active reports whether the handlers are installed.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.acquired
}

// Over handles the pointer moving onto a link with target href. Only
// #bb-<id> targets change the highlight.
func (t *Tracker) Over(href string) {
	id, ok := BoxID(href)
	if !ok {
		return
	}
	t.set(state.Hover{Kind: state.HoverRegion, Region: id})
}

// Enter handles the pointer entering the response: no region is
// highlighted until a box link is hovered.
func (t *Tracker) Enter() {
	t.set(state.Hover{Kind: state.HoverInside})
}

// Leave handles the pointer leaving the response.
func (t *Tracker) Leave() {
	t.set(state.Hover{Kind: state.HoverNone})
}

func (t *Tracker) set(h state.Hover) {
	if !t.Active() {
		return
	}
	t.sink.SetHover(h)
}
