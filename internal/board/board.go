package board

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"SketchBoard/internal/render"
	"SketchBoard/internal/snapshot"
	"SketchBoard/internal/state"
)

// Default surface size.
const (
	DefaultWidth  = 512
	DefaultHeight = 512
)

// Config describes a board.
type Config struct {
	Width, Height int
	Brush         render.Brush
	Storage       snapshot.Storage
	Snapshot      snapshot.Options
	// Site identifies this session's strokes to shared-session peers.
	Site string
	// Ink returns the colour new strokes are drawn with.
	Ink func() string
}

// Board is the drawing component. It owns the stroke buffer and the
// surface, repaints the whole surface on every mutation and keeps the
// stored snapshot up to date. All methods are safe for concurrent use: the
// debounced save runs on a timer goroutine and reads the surface under the
// same lock the mutations hold.
type Board struct {
	canvas *state.Canvas
	comp   *render.Compositor
	bridge *snapshot.Bridge
	ink    func() string
	bounds state.Rect
	log    *slog.Logger

	captured  int
	capturing bool

	mu   sync.Mutex
	onOp atomic.Pointer[func(state.Op)]

	// OnChange runs after every repaint, outside the lock.
	OnChange func()
	// OnClear runs after an explicit Clear.
	OnClear func()
}

// New creates a board with a blank surface. Call Mount to seed it from the
// stored snapshot.
func New(cfg Config) *Board {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Brush.Size <= 0 {
		cfg.Brush = render.DefaultBrush()
	}
	if cfg.Storage == nil {
		cfg.Storage = snapshot.NewMemoryStorage()
	}
	if cfg.Ink == nil {
		cfg.Ink = func() string { return "#000000" }
	}
	b := &Board{
		canvas: state.NewCanvas(cfg.Site),
		comp:   render.NewCompositor(cfg.Width, cfg.Height, cfg.Brush),
		ink:    cfg.Ink,
		bounds: state.Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)},
		log:    slog.Default().With("component", "board"),
	}
	b.bridge = snapshot.NewBridge(cfg.Storage, b, cfg.Snapshot)
	return b
}

// Bridge exposes the persistence bridge, e.g. to hook save errors.
func (b *Board) Bridge() *snapshot.Bridge {
	return b.bridge
}

// Site returns the id this board stamps its ops with.
func (b *Board) Site() string {
	return b.canvas.Site()
}

// Size returns the surface dimensions.
func (b *Board) Size() (width, height int) {
	r := b.comp.Bounds()
	return r.Dx(), r.Dy()
}

// Strokes returns a copy of the strokes in paint order.
func (b *Board) Strokes() []state.Stroke {
	return b.canvas.Strokes()
}

// Brush returns the brush strokes are drawn with.
func (b *Board) Brush() render.Brush {
	return b.comp.Brush()
}

// Mount paints the initial surface: background, then the stored snapshot,
// or the built-in default picture when nothing usable is stored.
func (b *Board) Mount() error {
	img, ok, err := b.bridge.Load()
	if err != nil {
		return err
	}
	if !ok {
		b.log.Info("no stored snapshot, loading default picture")
		img = DefaultImage(b.Size())
	}
	b.restore(img)
	return nil
}

// VisibilityChanged restores the surface from the stored snapshot when the
// view becomes visible again and the snapshot was written by someone else
// while hidden. A pending save is written first so the restore never goes
// back to an older picture. Otherwise the surface is just repainted.
func (b *Board) VisibilityChanged(visible bool) error {
	if !visible {
		return nil
	}
	b.bridge.Flush()
	img, ok, err := b.bridge.LoadChanged()
	if err != nil {
		return err
	}
	if !ok {
		b.Repaint()
		return nil
	}
	b.restore(img)
	return nil
}

func (b *Board) restore(img image.Image) {
	w, h := b.Size()
	fitted := snapshot.Fit(img, w, h)

	b.mu.Lock()
	b.comp.FillBackground()
	b.comp.SetBase(fitted)
	b.repaintLocked()
	b.mu.Unlock()

	b.notify()
}

// Import replaces the drawing with an uploaded image file.
func (b *Board) Import(r io.Reader) error {
	img, err := snapshot.DecodeReader(r)
	if err != nil {
		return fmt.Errorf("import image: %w", err)
	}
	w, h := b.Size()
	fitted := snapshot.Fit(img, w, h)

	b.mu.Lock()
	op := b.canvas.Clear()
	b.comp.SetBase(fitted)
	b.repaintLocked()
	b.mu.Unlock()

	b.emit(op)
	b.notify()
	b.bridge.Schedule()
	return nil
}

// Clear empties the canvas and overwrites the stored snapshot with the
// blank surface straight away.
func (b *Board) Clear() error {
	b.bridge.Cancel()

	b.mu.Lock()
	op := b.canvas.Clear()
	b.comp.ClearBase()
	b.repaintLocked()
	b.mu.Unlock()

	b.emit(op)
	b.notify()
	if b.OnClear != nil {
		b.OnClear()
	}
	return b.bridge.Save()
}

// Apply merges a mutation received from a shared-session peer.
func (b *Board) Apply(op state.Op) bool {
	b.mu.Lock()
	changed := b.canvas.Apply(op)
	if changed {
		b.repaintLocked()
	}
	b.mu.Unlock()

	if changed {
		b.notify()
		b.bridge.Schedule()
	}
	return changed
}

// Repaint redraws the surface from the current state.
func (b *Board) Repaint() {
	b.mu.Lock()
	b.repaintLocked()
	b.mu.Unlock()
	b.notify()
}

func (b *Board) repaintLocked() {
	b.comp.Repaint(b.canvas.Strokes())
}

// changed finishes a local drawing mutation: relay the op, refresh views
// and re-arm the debounced save.
func (b *Board) changed(op state.Op) {
	b.emit(op)
	b.notify()
	b.bridge.Schedule()
}

// SetOnOp sets the receiver of every local mutation, for relaying to
// peers. It may be called while the board is in use; nil stops relaying.
func (b *Board) SetOnOp(f func(state.Op)) {
	if f == nil {
		b.onOp.Store(nil)
		return
	}
	b.onOp.Store(&f)
}

func (b *Board) emit(op state.Op) {
	if f := b.onOp.Load(); f != nil {
		(*f)(op)
	}
}

func (b *Board) notify() {
	if b.OnChange != nil {
		b.OnChange()
	}
}

// Frame returns a copy of the surface for display.
func (b *Board) Frame() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	src := b.comp.Surface()
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// Base returns a copy of the base layer, or nil.
func (b *Board) Base() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.comp.BaseImage()
}

// Snapshot encodes the surface as a JPEG data URL.
func (b *Board) Snapshot() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return snapshot.EncodeDataURL(b.comp.Surface())
}

// Payload encodes the surface for the prediction request: MIME type and
// base64 data without a data-URI prefix.
func (b *Board) Payload() (mime, data string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, err = snapshot.EncodePayload(b.comp.Surface())
	if err != nil {
		return "", "", err
	}
	return snapshot.MIMEType, data, nil
}
