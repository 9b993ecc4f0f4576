package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/board"
	"SketchBoard/internal/state"
)

var (
	regionColor    = color.NRGBA{R: 59, G: 130, B: 246, A: 110}
	highlightColor = color.NRGBA{R: 239, G: 68, B: 68, A: 255}
)

// BoardWidget shows the board's surface with the response's bounding boxes
// on top and feeds mouse input into the board's pointer protocol.
type BoardWidget struct {
	widget.BaseWidget
	board   *board.Board
	app     *state.AppState
	regions *state.Regions
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(b *board.Board, app *state.AppState, regions *state.Regions) *BoardWidget {
	w := &BoardWidget{board: b, app: app, regions: regions}
	w.ExtendBaseWidget(w)
	return w
}

// event converts a fyne pointer position into a board event, first
// telling the board where the surface sits in absolute coordinates.
func (w *BoardWidget) event(pe fyne.PointEvent, buttons board.Buttons) board.PointerEvent {
	origin := pe.AbsolutePosition.Subtract(pe.Position)
	width, height := w.board.Size()
	w.board.SetBounds(state.Rect{
		X:      float64(origin.X),
		Y:      float64(origin.Y),
		Width:  float64(width),
		Height: float64(height),
	})
	return board.PointerEvent{
		ClientX: float64(pe.AbsolutePosition.X),
		ClientY: float64(pe.AbsolutePosition.Y),
		Buttons: buttons,
	}
}

func buttonsOf(b desktop.MouseButton) board.Buttons {
	var out board.Buttons
	if b&desktop.MouseButtonPrimary != 0 {
		out |= board.ButtonPrimary
	}
	if b&desktop.MouseButtonSecondary != 0 {
		out |= board.ButtonSecondary
	}
	if b&desktop.MouseButtonTertiary != 0 {
		out |= board.ButtonAuxiliary
	}
	return out
}

// MouseDown starts a stroke. A secondary click on a response region
// highlights the topmost region under the pointer instead.
func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonSecondary {
		if ids := w.regions.At(float64(e.Position.X), float64(e.Position.Y)); len(ids) > 0 {
			w.app.SetHover(state.Hover{Kind: state.HoverRegion, Region: ids[len(ids)-1]})
			return
		}
	}
	w.board.PointerDown(w.event(e.PointEvent, buttonsOf(e.Button)))
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	w.board.PointerUp(w.event(e.PointEvent, 0))
}

// Dragged is only delivered while the primary button is held.
func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	w.board.PointerMove(w.event(e.PointEvent, board.ButtonPrimary))
}

func (w *BoardWidget) DragEnd() {
	w.board.LostCapture(0)
}

func (w *BoardWidget) MouseIn(*desktop.MouseEvent) {}

// MouseMoved is hover: the board ignores moves without a button held.
func (w *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	w.board.PointerMove(w.event(e.PointEvent, 0))
}

func (w *BoardWidget) MouseOut() {}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(w.board.Frame())
	img.FillMode = canvas.ImageFillOriginal
	img.ScaleMode = canvas.ImageScalePixels
	r := &boardWidgetRenderer{widget: w, image: img}
	r.rebuildOverlay()
	return r
}

type boardWidgetRenderer struct {
	widget  *BoardWidget
	image   *canvas.Image
	overlay []fyne.CanvasObject
}

func (r *boardWidgetRenderer) size() fyne.Size {
	width, height := r.widget.board.Size()
	return fyne.NewSize(float32(width), float32(height))
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return append([]fyne.CanvasObject{r.image}, r.overlay...)
}

func (r *boardWidgetRenderer) Layout(fyne.Size) {
	r.image.Move(fyne.NewPos(0, 0))
	r.image.Resize(r.size())
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return r.size()
}

func (r *boardWidgetRenderer) Refresh() {
	r.image.Image = r.widget.board.Frame()
	r.image.Refresh()
	r.rebuildOverlay()
	canvas.Refresh(r.widget)
}

// rebuildOverlay outlines the response's regions while the pointer is in
// the response view, drawing the hovered one in the highlight colour.
func (r *boardWidgetRenderer) rebuildOverlay() {
	r.overlay = r.overlay[:0]
	hover := r.widget.app.Hover()
	if hover.Kind == state.HoverNone {
		return
	}
	for _, region := range r.widget.regions.All() {
		rect := canvas.NewRectangle(color.Transparent)
		rect.StrokeColor = regionColor
		rect.StrokeWidth = 2
		if hover.Kind == state.HoverRegion && hover.Region == region.ID {
			rect.StrokeColor = highlightColor
			rect.StrokeWidth = 3
		}
		rect.Move(fyne.NewPos(float32(region.Area.X), float32(region.Area.Y)))
		rect.Resize(fyne.NewSize(float32(region.Area.Width), float32(region.Area.Height)))
		r.overlay = append(r.overlay, rect)
	}
}

func (r *boardWidgetRenderer) Destroy() {}
