package board

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchBoard/internal/snapshot"
	"SketchBoard/internal/state"
)

// manualTimers is a snapshot.Scheduler that only fires when told to.
type manualTimers struct {
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (m *manualTimers) schedule(_ time.Duration, f func()) snapshot.Timer {
	t := &manualTimer{f: f}
	m.pending = append(m.pending, t)
	return t
}

func (m *manualTimers) fireAll() {
	timers := m.pending
	m.pending = nil
	for _, t := range timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func newTestBoard(t *testing.T, ink string) (*Board, *snapshot.MemoryStorage, *manualTimers) {
	t.Helper()
	store := snapshot.NewMemoryStorage()
	timers := &manualTimers{}
	b := New(Config{
		Width:    100,
		Height:   100,
		Storage:  store,
		Snapshot: snapshot.Options{Scheduler: timers.schedule},
		Site:     "local",
		Ink:      func() string { return ink },
	})
	return b, store, timers
}

func down(x, y float64) PointerEvent {
	return PointerEvent{ClientX: x, ClientY: y, Buttons: ButtonPrimary}
}
func drag(x, y float64) PointerEvent {
	return PointerEvent{ClientX: x, ClientY: y, Buttons: ButtonPrimary}
}
func up(x, y float64) PointerEvent { return PointerEvent{ClientX: x, ClientY: y} }

func drawLine(b *Board, y float64, from, to float64) {
	b.PointerDown(down(from, y))
	for x := from + 5; x <= to; x += 5 {
		b.PointerMove(drag(x, y))
	}
	b.PointerUp(up(to, y))
}

// drawBand draws parallel lines so the ink survives JPEG compression.
func drawBand(b *Board, y float64) {
	for dy := -6.0; dy <= 6; dy += 3 {
		drawLine(b, y+dy, 10, 90)
	}
}

func assertInk(t *testing.T, want, got color.RGBA) {
	t.Helper()
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	assert.LessOrEqual(t, d(want.R, got.R)+d(want.G, got.G)+d(want.B, got.B), 6, "want %v got %v", want, got)
}

func isWhite(c color.RGBA) bool {
	return c.R > 245 && c.G > 245 && c.B > 245
}

func TestNewDefaults(t *testing.T) {
	b := New(Config{})
	w, h := b.Size()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
	assert.Equal(t, "canvas-1", b.Bridge().Key())
	assert.Equal(t, 4.0, b.Brush().Size)
	assert.NotEmpty(t, b.Site())
}

func TestStrokeAndPointCounts(t *testing.T) {
	b, _, _ := newTestBoard(t, "#000000")

	b.PointerDown(down(10, 10))
	for i := 0; i < 4; i++ {
		assert.True(t, b.PointerMove(drag(20+float64(i), 10)))
	}
	b.PointerUp(up(24, 10))

	b.PointerDown(down(50, 50))
	b.PointerUp(up(50, 50))

	strokes := b.Strokes()
	require.Len(t, strokes, 2)
	assert.Len(t, strokes[0].Points, 5)
	assert.Len(t, strokes[1].Points, 1)
}

func TestHoverMovesAreIgnored(t *testing.T) {
	b, _, timers := newTestBoard(t, "#000000")

	assert.False(t, b.PointerMove(PointerEvent{ClientX: 10, ClientY: 10}))
	assert.False(t, b.PointerMove(PointerEvent{ClientX: 10, ClientY: 10, Buttons: ButtonSecondary}))
	assert.False(t, b.PointerMove(PointerEvent{ClientX: 10, ClientY: 10, Buttons: ButtonPrimary | ButtonSecondary}))
	assert.Empty(t, b.Strokes())
	assert.Empty(t, timers.pending)

	b.PointerDown(down(10, 10))
	assert.False(t, b.PointerMove(PointerEvent{ClientX: 20, ClientY: 20}))
	assert.Len(t, b.Strokes()[0].Points, 1)
}

func TestPointerUsesSurfaceOffset(t *testing.T) {
	b, _, _ := newTestBoard(t, "#000000")
	b.SetBounds(state.Rect{X: 100, Y: 40, Width: 100, Height: 100})

	b.PointerDown(down(110, 60))
	assert.Equal(t, state.NewPoint(10, 20), b.Strokes()[0].Points[0])
}

func TestPointerCapture(t *testing.T) {
	b, _, _ := newTestBoard(t, "#000000")

	b.PointerDown(PointerEvent{PointerID: 3, ClientX: 1, ClientY: 1, Buttons: ButtonPrimary})
	b.LostCapture(7)
	assert.True(t, b.PointerMove(drag(3, 3)), "other pointers do not release the capture")

	b.LostCapture(3)
	assert.False(t, b.PointerMove(drag(5, 5)), "no stroke after release")
	assert.Len(t, b.Strokes()[0].Points, 2)
}

func TestDrawingUsesCurrentInk(t *testing.T) {
	ink := "#ff0000"
	b, _, _ := newTestBoard(t, "")
	b.ink = func() string { return ink }

	drawLine(b, 30, 10, 90)
	ink = "#0000ff"
	drawLine(b, 70, 10, 90)

	strokes := b.Strokes()
	require.Len(t, strokes, 2)
	assert.Equal(t, "#ff0000", strokes[0].Color)
	assert.Equal(t, "#0000ff", strokes[1].Color)

	frame := b.Frame()
	assertInk(t, color.RGBA{R: 255, A: 255}, frame.RGBAAt(50, 30))
	assertInk(t, color.RGBA{B: 255, A: 255}, frame.RGBAAt(50, 70))
	assert.True(t, isWhite(frame.RGBAAt(50, 50)))
}

func TestDebouncedSaveAfterDrawing(t *testing.T) {
	b, store, timers := newTestBoard(t, "#000000")

	drawLine(b, 50, 10, 90)
	assert.Zero(t, store.Writes())
	assert.True(t, b.Bridge().Pending())

	timers.fireAll()
	assert.Equal(t, 1, store.Writes())
	stored, _ := store.Load(snapshot.DefaultKey)
	assert.Contains(t, stored, "data:image/jpeg;base64,")
}

func TestClear(t *testing.T) {
	b, store, timers := newTestBoard(t, "#000000")
	cleared := false
	var ops []state.Op
	b.OnClear = func() { cleared = true }
	b.SetOnOp(func(op state.Op) { ops = append(ops, op) })

	drawLine(b, 50, 10, 90)
	require.NoError(t, b.Clear())

	assert.True(t, cleared)
	assert.Empty(t, b.Strokes())
	assert.Equal(t, state.OpClear, ops[len(ops)-1].Type)
	frame := b.Frame()
	for y := 0; y < 100; y += 7 {
		for x := 0; x < 100; x += 7 {
			assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, frame.RGBAAt(x, y))
		}
	}

	// Saved straight away and the pending debounce dropped.
	assert.Equal(t, 1, store.Writes())
	assert.False(t, b.Bridge().Pending())
	timers.fireAll()
	assert.Equal(t, 1, store.Writes())

	img, ok, err := b.Bridge().Load()
	require.NoError(t, err)
	require.True(t, ok)
	r, g, bl, _ := img.At(50, 50).RGBA()
	assert.True(t, isWhite(color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)}))
}

func TestSetOnOpWhileDrawing(t *testing.T) {
	b, _, _ := newTestBoard(t, "#000000")
	var relayed atomic.Int64
	relay := func(state.Op) { relayed.Add(1) }

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			b.SetOnOp(relay)
		}
	}()
	for i := 0; i < 10; i++ {
		drawLine(b, float64(10+i*5), 10, 30)
	}
	wg.Wait()

	b.SetOnOp(relay)
	before := relayed.Load()
	drawLine(b, 90, 10, 30)
	assert.Greater(t, relayed.Load(), before)

	b.SetOnOp(nil)
	before = relayed.Load()
	drawLine(b, 95, 10, 30)
	assert.Equal(t, before, relayed.Load(), "nil stops relaying")
}

func TestMountDefaultImage(t *testing.T) {
	b, _, _ := newTestBoard(t, "#000000")
	require.NoError(t, b.Mount())

	assert.Equal(t, DefaultImage(100, 100).Pix, b.Frame().Pix)
	assert.Empty(t, b.Strokes())
}

func TestMountMalformedSnapshotUsesDefault(t *testing.T) {
	b, store, _ := newTestBoard(t, "#000000")
	require.NoError(t, store.Store(snapshot.DefaultKey, "data:image/jpeg;base64,???"))
	require.NoError(t, b.Mount())
	assert.Equal(t, DefaultImage(100, 100).Pix, b.Frame().Pix)
}

func TestRestoreRoundTrip(t *testing.T) {
	first, store, _ := newTestBoard(t, "#ff0000")
	drawBand(first, 50)
	require.NoError(t, first.Bridge().Save())

	second := New(Config{Width: 100, Height: 100, Storage: store})
	require.NoError(t, second.Mount())

	got := second.Frame().RGBAAt(50, 50)
	assert.Greater(t, int(got.R), 200)
	assert.Less(t, int(got.G), 80)
	assert.True(t, isWhite(second.Frame().RGBAAt(50, 10)))

	// Strokes drawn after a restore keep the restored picture underneath.
	second.PointerDown(down(50, 80))
	second.PointerUp(up(50, 80))
	assert.Greater(t, int(second.Frame().RGBAAt(50, 50).R), 200)
}

func TestVisibilityRestore(t *testing.T) {
	b, store, _ := newTestBoard(t, "#000000")
	require.NoError(t, b.VisibilityChanged(true))
	assert.True(t, isWhite(b.Frame().RGBAAt(50, 50)), "nothing stored: plain repaint")

	other, _, _ := newTestBoard(t, "#0000ff")
	drawBand(other, 50)
	snap, err := other.Snapshot()
	require.NoError(t, err)
	require.NoError(t, store.Store(snapshot.DefaultKey, snap))

	require.NoError(t, b.VisibilityChanged(false))
	assert.True(t, isWhite(b.Frame().RGBAAt(50, 50)))

	require.NoError(t, b.VisibilityChanged(true))
	assert.Greater(t, int(b.Frame().RGBAAt(50, 50).B), 200)
}

func TestVisibilityAfterImportKeepsImage(t *testing.T) {
	b, store, timers := newTestBoard(t, "#000000")
	drawBand(b, 50)
	timers.fireAll()

	require.NoError(t, b.Import(greenPNG(t)))
	require.NoError(t, b.VisibilityChanged(false))
	require.NoError(t, b.VisibilityChanged(true))
	assertInk(t, color.RGBA{G: 255, A: 255}, b.Frame().RGBAAt(50, 50))

	timers.fireAll()
	restored := New(Config{Width: 100, Height: 100, Storage: store})
	require.NoError(t, restored.Mount())
	got := restored.Frame().RGBAAt(50, 50)
	assert.Greater(t, int(got.G), 200)
	assert.Less(t, int(got.R), 60)
}

func TestVisibilityCyclesKeepPixels(t *testing.T) {
	b, _, timers := newTestBoard(t, "#ff0000")
	require.NoError(t, b.Mount())
	drawBand(b, 50)
	timers.fireAll()
	want := b.Frame().Pix

	for i := 0; i < 20; i++ {
		require.NoError(t, b.VisibilityChanged(false))
		require.NoError(t, b.VisibilityChanged(true))
		timers.fireAll()
	}
	assert.Equal(t, want, b.Frame().Pix)
}

func greenPNG(t *testing.T) *bytes.Buffer {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+1], src.Pix[i+3] = 255, 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	return &buf
}

func TestImport(t *testing.T) {
	b, store, timers := newTestBoard(t, "#000000")
	drawLine(b, 20, 10, 90)

	require.NoError(t, b.Import(greenPNG(t)))
	assert.Empty(t, b.Strokes())
	assert.NotNil(t, b.Base())
	assertInk(t, color.RGBA{G: 255, A: 255}, b.Frame().RGBAAt(50, 20))

	timers.fireAll()
	assert.Equal(t, 1, store.Writes())

	assert.ErrorIs(t, b.Import(bytes.NewReader([]byte("nope"))), snapshot.ErrMalformed)
}

func TestApplyRemoteOps(t *testing.T) {
	b, _, timers := newTestBoard(t, "#000000")
	changes := 0
	b.OnChange = func() { changes++ }

	peer := state.NewCanvas("peer")
	assert.True(t, b.Apply(peer.Begin(state.NewPoint(50, 50), "#00ff00")))
	assert.False(t, b.Apply(state.Op{Type: state.OpBeginStroke, Site: "local", Lamport: 99}))

	assert.Equal(t, 1, changes)
	assert.Len(t, timers.pending, 1)
	assertInk(t, color.RGBA{G: 255, A: 255}, b.Frame().RGBAAt(50, 50))
}

func TestPayload(t *testing.T) {
	b, _, _ := newTestBoard(t, "#000000")
	mime, data, err := b.Payload()
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.NotContains(t, data, "data:")

	var surface state.Surface = b
	assert.NotNil(t, surface)
}
