package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/annotate"
	"SketchBoard/internal/board"
	"SketchBoard/internal/export"
	"SketchBoard/internal/state"
	"SketchBoard/internal/submit"
)

// Session is everything the window shows and drives.
type Session struct {
	Board   *board.Board
	State   *state.AppState
	Regions *state.Regions
	Submit  *submit.Controller
	// ShareLink is shown to the user when hosting a shared session.
	ShareLink string
	// Status is a one-line connection status, may be nil.
	Status binding.String
}

// NewWindow builds the main window for s and wires the board, the
// submission controller and the response view together.
func NewWindow(a fyne.App, s Session) fyne.Window {
	log := slog.Default().With("component", "ui")
	win := a.NewWindow("SketchBoard")
	win.Resize(fyne.NewSize(1100, 720))
	if s.Regions == nil {
		s.Regions = state.NewRegions()
	}
	s.State.SetSurface(s.Board)

	boardWidget := NewBoardWidget(s.Board, s.State, s.Regions)
	s.Board.OnChange = func() { fyne.Do(boardWidget.Refresh) }

	width, height := s.Board.Size()
	s.State.ResponseBinding().AddListener(binding.NewDataListener(func() {
		s.Regions.Set(annotate.ParseBoxes(s.State.Response(), width, height))
		fyne.Do(boardWidget.Refresh)
	}))
	s.State.HoverBinding().AddListener(binding.NewDataListener(func() { fyne.Do(boardWidget.Refresh) }))

	onClear := s.Board.OnClear
	s.Board.OnClear = func() {
		s.State.SetResponse("")
		if onClear != nil {
			onClear()
		}
	}
	s.Board.Bridge().OnSaveError = func(err error) {
		fyne.Do(func() { dialog.ShowError(err, win) })
	}

	alert := func(msg string) {
		fyne.Do(func() { dialog.ShowError(errors.New(msg), win) })
	}
	if s.Submit != nil {
		s.Submit.Alert = alert
	}

	toolbar := NewToolbar(s.State, win, Actions{
		Clear: func() {
			if err := s.Board.Clear(); err != nil {
				dialog.ShowError(err, win)
			}
		},
		Upload: func() { upload(s.Board, win) },
		Export: func() { exportPDF(s.Board, win) },
		Share:  shareAction(s.ShareLink, win),
	})

	send := widget.NewButton("Send", nil)
	send.Importance = widget.HighImportance
	progress := widget.NewProgressBarInfinite()
	send.OnTapped = func() {
		if s.Submit == nil {
			alert("no model configured")
			return
		}
		go func() {
			if err := s.Submit.Submit(context.Background()); err != nil {
				log.Debug("submit finished with error", "err", err)
			}
		}()
	}
	syncBusy := func() {
		if s.State.Generating() {
			send.Hide()
			progress.Show()
			progress.Start()
		} else {
			progress.Stop()
			progress.Hide()
			send.Show()
		}
	}
	syncBusy()
	s.State.GeneratingBinding().AddListener(binding.NewDataListener(func() {
		fyne.Do(syncBusy)
	}))

	left := container.NewVBox(
		container.NewCenter(boardWidget),
		toolbar,
	)
	if s.Status != nil {
		left.Add(widget.NewLabelWithData(s.Status))
	}

	right := container.NewBorder(
		container.NewVBox(
			NewModelPicker(s.State),
			NewPromptEditor(s.State),
			container.NewStack(send, progress),
			container.NewHBox(widget.NewLabel("Response"), NewFormatPicker(s.State)),
		),
		nil, nil, nil,
		container.NewVScroll(NewResponseView(s.State)),
	)

	split := container.NewHSplit(left, right)
	split.Offset = 0.55
	win.SetContent(split)

	a.Lifecycle().SetOnEnteredForeground(func() {
		if err := s.Board.VisibilityChanged(true); err != nil {
			log.Warn("could not restore snapshot", "err", err)
		}
	})
	a.Lifecycle().SetOnStopped(func() {
		s.Board.Bridge().Flush()
	})
	return win
}

// RunApp mounts the board, shows the window and runs the event loop.
func RunApp(a fyne.App, s Session) {
	if err := s.Board.Mount(); err != nil {
		slog.Warn("could not load snapshot", "component", "ui", "err", err)
	}
	NewWindow(a, s).ShowAndRun()
}

func upload(b *board.Board, win fyne.Window) {
	open := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		if err := b.Import(r); err != nil {
			dialog.ShowError(fmt.Errorf("open %s: %w", r.URI().Name(), err), win)
		}
	}, win)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}))
	open.Show()
}

// exportPDF asks whether to crop to the drawing, then where to save.
func exportPDF(b *board.Board, win fyne.Window) {
	crop := widget.NewCheck("Crop to the drawing", nil)
	dialog.ShowCustomConfirm("Export PDF", "Choose file", "Cancel", crop, func(ok bool) {
		if ok {
			savePDF(b, exportOptions(crop.Checked), win)
		}
	}, win)
}

func exportOptions(crop bool) export.Options {
	if !crop {
		return export.Options{}
	}
	return export.Options{Crop: true, Padding: export.DefaultPadding}
}

func savePDF(b *board.Board, opts export.Options, win fyne.Window) {
	save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		if err := export.PDF(w, sketchOf(b), opts); err != nil {
			dialog.ShowError(err, win)
		}
	}, win)
	save.SetFileName("sketch.pdf")
	save.Show()
}

func sketchOf(b *board.Board) export.Sketch {
	width, height := b.Size()
	s := export.Sketch{
		Width:   width,
		Height:  height,
		Strokes: b.Strokes(),
		Brush:   b.Brush(),
	}
	if base := b.Base(); base != nil {
		s.Base = base
	}
	return s
}

func shareAction(link string, win fyne.Window) func() {
	if link == "" {
		return nil
	}
	return func() {
		entry := widget.NewEntry()
		entry.SetText(link)
		dialog.ShowCustom("Share this board", "Close", container.NewVBox(
			widget.NewLabel("Open this link on another machine on the same network:"),
			entry,
			widget.NewButton("Copy", func() {
				win.Clipboard().SetContent(link)
			}),
		), win)
	}
}

// ExportPDF writes the board to path without opening a window.
func ExportPDF(b *board.Board, path string) error {
	return export.PDFFile(path, sketchOf(b), exportOptions(false))
}
