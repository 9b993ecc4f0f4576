package snapshot

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"
)

// DefaultWindow is the quiescence window before a snapshot is written.
const DefaultWindow = time.Second

// Source produces the encoding of a fully painted surface.
type Source interface {
	Snapshot() (string, error)
}

// Bridge persists the surface: Schedule arms a debounced Save, Load reads
// the last snapshot back.
type Bridge struct {
	store    Storage
	key      string
	source   Source
	debounce *Debouncer
	log      *slog.Logger

	// last is the encoding this bridge last wrote or read.
	mu   sync.Mutex
	last string

	// OnSaveError receives errors from debounced saves, which have no
	// caller to return them to.
	OnSaveError func(error)
}

// Options tune a Bridge. Zero values pick the defaults.
type Options struct {
	Key       string
	Window    time.Duration
	Scheduler Scheduler
}

// NewBridge wires store to source.
func NewBridge(store Storage, source Source, opts Options) *Bridge {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	b := &Bridge{
		store:  store,
		key:    opts.Key,
		source: source,
		log:    slog.Default().With("component", "snapshot"),
	}
	b.debounce = NewDebouncer(opts.Window, b.debouncedSave, opts.Scheduler)
	return b
}

// Key returns the storage key in use.
func (b *Bridge) Key() string {
	return b.key
}

// Schedule arms (or re-arms) the debounced save.
func (b *Bridge) Schedule() {
	b.debounce.Trigger()
}

// Cancel drops a pending debounced save.
func (b *Bridge) Cancel() {
	b.debounce.Cancel()
}

// Flush writes a pending debounced save now.
func (b *Bridge) Flush() {
	b.debounce.Flush()
}

// Pending reports whether a debounced save is armed.
func (b *Bridge) Pending() bool {
	return b.debounce.Pending()
}

// Save encodes the surface and overwrites the stored snapshot.
func (b *Bridge) Save() error {
	enc, err := b.source.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot surface: %w", err)
	}
	if err := b.store.Store(b.key, enc); err != nil {
		return fmt.Errorf("store snapshot %q: %w", b.key, err)
	}
	b.remember(enc)
	b.log.Debug("snapshot saved", "key", b.key, "bytes", len(enc))
	return nil
}

func (b *Bridge) remember(enc string) {
	b.mu.Lock()
	b.last = enc
	b.mu.Unlock()
}

func (b *Bridge) debouncedSave() {
	if err := b.Save(); err != nil {
		b.log.Error("debounced save failed", "err", err)
		if b.OnSaveError != nil {
			b.OnSaveError(err)
		}
	}
}

// Load returns the stored snapshot. ok is false when nothing usable is
// stored: an absent key and an undecodable value are treated alike. Only a
// failing read is an error.
func (b *Bridge) Load() (img image.Image, ok bool, err error) {
	enc, err := b.store.Load(b.key)
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot %q: %w", b.key, err)
	}
	return b.decode(enc)
}

// LoadChanged is Load for a stored value that differs from the one this
// bridge last saved or loaded. An unchanged snapshot reports ok false, so
// callers can keep their surface instead of swapping in the lossy copy.
func (b *Bridge) LoadChanged() (img image.Image, ok bool, err error) {
	enc, err := b.store.Load(b.key)
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot %q: %w", b.key, err)
	}
	b.mu.Lock()
	same := enc == b.last
	b.mu.Unlock()
	if same {
		return nil, false, nil
	}
	return b.decode(enc)
}

func (b *Bridge) decode(enc string) (image.Image, bool, error) {
	if enc == "" {
		return nil, false, nil
	}
	img, err := Decode(enc)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			b.log.Warn("ignoring malformed snapshot", "key", b.key, "err", err)
			return nil, false, nil
		}
		return nil, false, err
	}
	b.remember(enc)
	return img, true, nil
}
