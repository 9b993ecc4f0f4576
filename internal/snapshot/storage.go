package snapshot

import (
	"sync"

	"fyne.io/fyne/v2"
)

// DefaultKey is the storage key the canvas snapshot lives under.
const DefaultKey = "canvas-1"

// Storage is a durable string key-value store. Load returns "" for a key
// that was never written.
type Storage interface {
	Load(key string) (string, error)
	Store(key, value string) error
}

// PrefsStorage keeps snapshots in the application's fyne preferences.
type PrefsStorage struct {
	prefs fyne.Preferences
}

// NewPrefsStorage wraps p.
func NewPrefsStorage(p fyne.Preferences) *PrefsStorage {
	return &PrefsStorage{prefs: p}
}

func (s *PrefsStorage) Load(key string) (string, error) {
	return s.prefs.String(key), nil
}

func (s *PrefsStorage) Store(key, value string) error {
	s.prefs.SetString(key, value)
	return nil
}

// MemoryStorage is a process-local Storage, used headless and in tests.
type MemoryStorage struct {
	values map[string]string
	writes int
	mu     sync.Mutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Load(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *MemoryStorage) Store(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

// Writes returns how many Store calls have succeeded.
func (s *MemoryStorage) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
