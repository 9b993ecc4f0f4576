package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchBoard/internal/board"
	"SketchBoard/internal/export"
	"SketchBoard/internal/snapshot"
	"SketchBoard/internal/state"
)

func newSession(t *testing.T) (fyne.App, Session) {
	t.Helper()
	a := test.NewTempApp(t)
	app := state.NewAppState()
	b := board.New(board.Config{
		Width:   120,
		Height:  80,
		Storage: snapshot.NewMemoryStorage(),
		Site:    "local",
		Ink:     app.InkColor,
	})
	return a, Session{Board: b, State: app, Regions: state.NewRegions()}
}

func mouse(x, y float32, button desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y), AbsolutePosition: fyne.NewPos(x+10, y+20)},
		Button:     button,
	}
}

func TestBoardWidgetDraws(t *testing.T) {
	_, s := newSession(t)
	w := NewBoardWidget(s.Board, s.State, s.Regions)
	test.WidgetRenderer(w)
	assert.Equal(t, fyne.NewSize(120, 80), w.MinSize())

	s.State.SetInkColor("#ff0000")
	w.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	w.Dragged(&fyne.DragEvent{PointEvent: mouse(20, 12, 0).PointEvent})
	w.MouseMoved(mouse(30, 30, 0))
	w.DragEnd()

	strokes := s.Board.Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, "#ff0000", strokes[0].Color)
	assert.Equal(t, []state.Point{state.NewPoint(10, 10), state.NewPoint(20, 12)}, strokes[0].Points)
	assert.False(t, s.Board.PointerMove(board.PointerEvent{ClientX: 40, ClientY: 40, Buttons: board.ButtonPrimary}),
		"drag end releases the stroke")
}

func TestBoardWidgetSecondaryClickHighlights(t *testing.T) {
	_, s := newSession(t)
	w := NewBoardWidget(s.Board, s.State, s.Regions)
	r := test.WidgetRenderer(w)
	s.Regions.Set([]state.Region{
		{ID: "1", Area: state.Rect{X: 0, Y: 0, Width: 50, Height: 50}},
		{ID: "2", Area: state.Rect{X: 20, Y: 20, Width: 10, Height: 10}},
	})

	w.MouseDown(mouse(25, 25, desktop.MouseButtonSecondary))
	assert.Equal(t, state.Hover{Kind: state.HoverRegion, Region: "2"}, s.State.Hover(), "topmost region wins")
	assert.Empty(t, s.Board.Strokes(), "no stroke over a region")

	w.MouseDown(mouse(5, 5, desktop.MouseButtonSecondary))
	assert.Equal(t, state.Hover{Kind: state.HoverRegion, Region: "1"}, s.State.Hover())

	w.Refresh()
	objs := r.Objects()
	require.Len(t, objs, 3)
	assert.Equal(t, fyne.NewPos(0, 0), objs[1].Position())

	w.MouseDown(mouse(100, 70, desktop.MouseButtonSecondary))
	assert.Len(t, s.Board.Strokes(), 1, "outside every region the click draws")
}

func TestBoardWidgetOverlay(t *testing.T) {
	_, s := newSession(t)
	w := NewBoardWidget(s.Board, s.State, s.Regions)
	r := test.WidgetRenderer(w)
	s.Regions.Set([]state.Region{
		{ID: "1", Area: state.Rect{X: 1, Y: 1, Width: 10, Height: 10}},
		{ID: "2", Area: state.Rect{X: 20, Y: 20, Width: 10, Height: 10}},
	})

	w.Refresh()
	assert.Len(t, r.Objects(), 1, "no overlay outside the response")

	s.State.SetHover(state.Hover{Kind: state.HoverInside})
	w.Refresh()
	assert.Len(t, r.Objects(), 3)

	s.State.SetHover(state.Hover{Kind: state.HoverRegion, Region: "2"})
	w.Refresh()
	objs := r.Objects()
	require.Len(t, objs, 3)
	assert.Equal(t, fyne.NewPos(20, 20), objs[2].Position())
}

func TestResponseViewTracksHover(t *testing.T) {
	_, s := newSession(t)
	v := NewResponseView(s.State)
	r := test.WidgetRenderer(v).(*responseRenderer)

	s.State.SetResponse("A [roof](#bb-1) and a [door](bb-2).")
	v.Refresh()
	require.Len(t, r.links.Objects, 2)
	door := r.links.Objects[1].(*boxLink)
	assert.Equal(t, "door", door.Text)

	v.MouseIn(nil)
	assert.Equal(t, state.Hover{Kind: state.HoverInside}, s.State.Hover())
	door.MouseIn(nil)
	assert.Equal(t, state.Hover{Kind: state.HoverRegion, Region: "2"}, s.State.Hover())
	door.MouseOut()
	assert.Equal(t, state.Hover{Kind: state.HoverInside}, s.State.Hover())
	v.MouseOut()
	assert.Equal(t, state.Hover{Kind: state.HoverNone}, s.State.Hover())

	s.State.SetResponseFormat(state.FormatRaw)
	v.Refresh()
	assert.True(t, r.raw.Visible())
	assert.False(t, r.links.Visible())
}

func TestNewWindowWiresSession(t *testing.T) {
	a, s := newSession(t)
	win := NewWindow(a, s)
	require.NotNil(t, win.Content())
	assert.Equal(t, s.Board, s.State.Surface())

	s.State.SetResponse("old")
	require.NoError(t, s.Board.Clear())
	assert.Empty(t, s.State.Response(), "clearing the board clears the answer")

	s.State.SetResponse("```json\n[{\"id\": \"1\", \"box_2d\": [0, 0, 500, 500]}]\n```\n")
	assert.Eventually(t, func() bool { return len(s.Regions.All()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestSketchOf(t *testing.T) {
	_, s := newSession(t)
	sk := sketchOf(s.Board)
	assert.Equal(t, 120, sk.Width)
	assert.Nil(t, sk.Base)
}

func TestExportPDF(t *testing.T) {
	_, s := newSession(t)
	path := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, ExportPDF(s.Board, path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestExportCropToDrawing(t *testing.T) {
	a, s := newSession(t)
	s.Board.PointerDown(board.PointerEvent{ClientX: 40, ClientY: 30, Buttons: board.ButtonPrimary})
	s.Board.PointerMove(board.PointerEvent{ClientX: 60, ClientY: 40, Buttons: board.ButtonPrimary})
	s.Board.PointerUp(board.PointerEvent{ClientX: 60, ClientY: 40})

	assert.Equal(t, export.Options{}, exportOptions(false))
	opts := exportOptions(true)
	assert.True(t, opts.Crop)

	var full, cropped bytes.Buffer
	require.NoError(t, export.PDF(&full, sketchOf(s.Board), exportOptions(false)))
	require.NoError(t, export.PDF(&cropped, sketchOf(s.Board), opts))
	assert.Contains(t, full.String(), "/MediaBox [0 0 120.00 80.00]")
	assert.NotContains(t, cropped.String(), "/MediaBox [0 0 120.00 80.00]")

	win := a.NewWindow("export")
	exportPDF(s.Board, win)
	assert.NotNil(t, win.Canvas().Overlays().Top(), "crop choice is asked first")
}
