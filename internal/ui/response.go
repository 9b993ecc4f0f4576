package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/annotate"
	"SketchBoard/internal/state"
)

// ResponseView shows the model's answer, raw or as markdown with a row of
// box links that highlight regions on the board while hovered.
type ResponseView struct {
	widget.BaseWidget
	app     *state.AppState
	tracker *annotate.Tracker
}

var _ desktop.Hoverable = (*ResponseView)(nil)

func NewResponseView(app *state.AppState) *ResponseView {
	v := &ResponseView{app: app, tracker: annotate.NewTracker(app)}
	v.ExtendBaseWidget(v)
	return v
}

func (v *ResponseView) MouseIn(*desktop.MouseEvent)    { v.tracker.Enter() }
func (v *ResponseView) MouseMoved(*desktop.MouseEvent) {}
func (v *ResponseView) MouseOut()                      { v.tracker.Leave() }

// CreateRenderer acquires the hover handlers; the renderer's Destroy
// releases them.
func (v *ResponseView) CreateRenderer() fyne.WidgetRenderer {
	r := &responseRenderer{
		view:    v,
		raw:     widget.NewLabel(""),
		rich:    widget.NewRichText(),
		links:   container.NewHBox(),
		release: v.tracker.Acquire(),
	}
	r.raw.Wrapping = fyne.TextWrapWord
	r.rich.Wrapping = fyne.TextWrapWord
	r.box = container.NewVBox(r.raw, r.rich, r.links)

	r.listener = binding.NewDataListener(func() { fyne.Do(v.Refresh) })
	v.app.ResponseBinding().AddListener(r.listener)
	v.app.ResponseFormatBinding().AddListener(r.listener)
	r.Refresh()
	return r
}

type responseRenderer struct {
	view     *ResponseView
	raw      *widget.Label
	rich     *widget.RichText
	links    *fyne.Container
	box      *fyne.Container
	listener binding.DataListener
	release  func()
}

func (r *responseRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.box} }
func (r *responseRenderer) Layout(size fyne.Size)        { r.box.Resize(size) }
func (r *responseRenderer) MinSize() fyne.Size           { return r.box.MinSize() }

func (r *responseRenderer) Refresh() {
	text := r.view.app.Response()
	if text == "" {
		r.box.Hide()
		return
	}
	r.box.Show()

	if r.view.app.ResponseFormat() == state.FormatRaw {
		r.raw.SetText(text)
		r.raw.Show()
		r.rich.Hide()
		r.links.Hide()
		return
	}
	r.raw.Hide()
	r.rich.ParseMarkdown(annotate.StripBoxLinks(text))
	r.rich.Show()

	r.links.Objects = nil
	for _, l := range annotate.BoxLinks(text) {
		r.links.Add(newBoxLink(l, r.view.tracker))
	}
	r.links.Show()
	r.links.Refresh()
}

func (r *responseRenderer) Destroy() {
	r.view.app.ResponseBinding().RemoveListener(r.listener)
	r.view.app.ResponseFormatBinding().RemoveListener(r.listener)
	r.release()
}

// boxLink is a hoverable chip naming one region.
type boxLink struct {
	widget.Label
	link    annotate.Link
	tracker *annotate.Tracker
}

var _ desktop.Hoverable = (*boxLink)(nil)

func newBoxLink(l annotate.Link, t *annotate.Tracker) *boxLink {
	b := &boxLink{link: l, tracker: t}
	b.Text = l.Label
	b.TextStyle = fyne.TextStyle{Bold: true}
	b.Importance = widget.HighImportance
	b.ExtendBaseWidget(b)
	return b
}

func (b *boxLink) MouseIn(*desktop.MouseEvent)    { b.tracker.Over(b.link.Href) }
func (b *boxLink) MouseMoved(*desktop.MouseEvent) {}
func (b *boxLink) MouseOut()                      { b.tracker.Enter() }
