package state

import (
	"fyne.io/fyne/v2/data/binding"
)

// Model variants accepted by the prediction collaborator.
const (
	ModelFlash = "flash"
	ModelPro   = "pro"
)

// Response formats.
const (
	FormatRaw      = "raw"
	FormatMarkdown = "markdown+bb"
)

// HoverKind says what the pointer is over in the response view.
type HoverKind int

const (
	// HoverNone: the pointer is outside the response.
	HoverNone HoverKind = iota
	// HoverInside: inside the response but not over a box link.
	HoverInside
	// HoverRegion: over a link naming a region.
	HoverRegion
)

// Hover is the overlay highlight requested by the response view.
type Hover struct {
	Kind   HoverKind
	Region string
}

// Surface is the read-only view of the drawing used to build requests.
type Surface interface {
	Payload() (mime, data string, err error)
}

// AppState is the shared application state. Every field is a fyne binding
// so views can subscribe to changes; code reads and writes it only through
// the accessors below.
type AppState struct {
	model          binding.String
	inkColor       binding.String
	prompt         binding.String
	promptVisible  binding.Bool
	response       binding.String
	responseFormat binding.String
	generating     binding.Bool
	hover          binding.Item[Hover]

	surface Surface
}

// DefaultPrompt is the prompt a fresh session starts with.
const DefaultPrompt = "Describe this sketch. When you mention an object, link it as [label](#bb-N) " +
	"and finish with a json code block listing each object as " +
	`{"id": "N", "label": "...", "box_2d": [ymin, xmin, ymax, xmax]} in 0-1000 coordinates.`

// NewAppState returns the state a new session starts with.
func NewAppState() *AppState {
	s := &AppState{
		model:          binding.NewString(),
		inkColor:       binding.NewString(),
		prompt:         binding.NewString(),
		promptVisible:  binding.NewBool(),
		response:       binding.NewString(),
		responseFormat: binding.NewString(),
		generating:     binding.NewBool(),
		hover:          binding.NewItem(func(a, b Hover) bool { return a == b }),
	}
	_ = s.model.Set(ModelFlash)
	_ = s.inkColor.Set("#000000")
	_ = s.prompt.Set(DefaultPrompt)
	_ = s.responseFormat.Set(FormatMarkdown)
	return s
}

func get(b binding.String) string {
	v, _ := b.Get()
	return v
}

func getBool(b binding.Bool) bool {
	v, _ := b.Get()
	return v
}

func (s *AppState) Model() string           { return get(s.model) }
func (s *AppState) SetModel(m string)       { _ = s.model.Set(m) }
func (s *AppState) InkColor() string        { return get(s.inkColor) }
func (s *AppState) SetInkColor(c string)    { _ = s.inkColor.Set(c) }
func (s *AppState) Prompt() string          { return get(s.prompt) }
func (s *AppState) SetPrompt(p string)      { _ = s.prompt.Set(p) }
func (s *AppState) PromptVisible() bool     { return getBool(s.promptVisible) }
func (s *AppState) SetPromptVisible(v bool) { _ = s.promptVisible.Set(v) }
func (s *AppState) Response() string        { return get(s.response) }
func (s *AppState) SetResponse(r string)    { _ = s.response.Set(r) }
func (s *AppState) ResponseFormat() string  { return get(s.responseFormat) }
func (s *AppState) SetResponseFormat(f string) {
	_ = s.responseFormat.Set(f)
}
func (s *AppState) Generating() bool     { return getBool(s.generating) }
func (s *AppState) SetGenerating(v bool) { _ = s.generating.Set(v) }

// Hover returns the current overlay highlight.
func (s *AppState) Hover() Hover {
	h, _ := s.hover.Get()
	return h
}

// SetHover records the overlay highlight in one update, so listeners never
// see a region without the hover that names it.
func (s *AppState) SetHover(h Hover) {
	if h.Kind != HoverRegion {
		h.Region = ""
	}
	_ = s.hover.Set(h)
}

// Surface returns the drawing surface registered by the board, or nil.
func (s *AppState) Surface() Surface { return s.surface }

// SetSurface registers the drawing surface.
func (s *AppState) SetSurface(surface Surface) { s.surface = surface }

// Bindings exposed for views that bind widgets directly.

func (s *AppState) PromptBinding() binding.String         { return s.prompt }
func (s *AppState) ResponseBinding() binding.String       { return s.response }
func (s *AppState) GeneratingBinding() binding.Bool       { return s.generating }
func (s *AppState) PromptVisibleBinding() binding.Bool    { return s.promptVisible }
func (s *AppState) ResponseFormatBinding() binding.String { return s.responseFormat }
func (s *AppState) InkColorBinding() binding.String       { return s.inkColor }
func (s *AppState) HoverBinding() binding.Item[Hover]     { return s.hover }
