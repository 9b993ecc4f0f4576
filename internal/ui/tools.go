package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/render"
	"SketchBoard/internal/state"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

var palette = []color.Color{
	color.Black,
	color.NRGBA{R: 255, A: 255},
	color.NRGBA{G: 160, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 200, A: 255},
}

// Actions are the toolbar's side effects, supplied by the app.
type Actions struct {
	Clear  func()
	Upload func()
	Export func()
	Share  func()
}

// NewToolbar builds the row under the board: upload, clear, export and
// share on the left, ink colour on the right.
func NewToolbar(app *state.AppState, win fyne.Window, actions Actions) fyne.CanvasObject {
	current := canvas.NewRectangle(inkOf(app))
	current.SetMinSize(fyne.NewSize(24, 24))
	setInk := func(c color.Color) {
		app.SetInkColor(render.FormatColor(c))
		current.FillColor = c
		current.Refresh()
	}

	swatches := container.NewHBox()
	for _, c := range palette {
		swatches.Add(newColorSwatch(c, setInk))
	}
	pick := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() {
		picker := dialog.NewColorPicker("Ink color", "Pick the colour new strokes use", setInk, win)
		picker.Advanced = true
		picker.SetColor(inkOf(app))
		picker.Show()
	})

	left := container.NewHBox(
		widget.NewButtonWithIcon("Upload", theme.UploadIcon(), actions.Upload),
		widget.NewButtonWithIcon("Clear Canvas", theme.CancelIcon(), actions.Clear),
		widget.NewButtonWithIcon("PDF", theme.DocumentSaveIcon(), actions.Export),
	)
	if actions.Share != nil {
		left.Add(widget.NewButtonWithIcon("Share", theme.MailForwardIcon(), actions.Share))
	}

	return container.NewHBox(
		left,
		layout.NewSpacer(),
		widget.NewLabel("Ink color:"),
		swatches,
		current,
		pick,
	)
}

func inkOf(app *state.AppState) color.Color {
	c, err := render.ParseColor(app.InkColor())
	if err != nil {
		return color.Black
	}
	return c
}

// NewModelPicker builds the flash/pro radio bound to the app state.
func NewModelPicker(app *state.AppState) fyne.CanvasObject {
	radio := widget.NewRadioGroup([]string{state.ModelFlash, state.ModelPro}, func(v string) {
		if v != "" {
			app.SetModel(v)
		}
	})
	radio.Horizontal = true
	radio.Required = true
	radio.SetSelected(app.Model())
	return container.NewHBox(widget.NewLabel("Model:"), radio)
}

// NewPromptEditor builds the prompt entry with its show/hide toggle.
func NewPromptEditor(app *state.AppState) fyne.CanvasObject {
	entry := widget.NewEntryWithData(app.PromptBinding())
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapWord
	entry.SetPlaceHolder("prompt")
	entry.SetMinRowsVisible(4)

	var toggle *widget.Button
	update := func() {
		if app.PromptVisible() {
			entry.Show()
			toggle.SetText("hide")
		} else {
			entry.Hide()
			toggle.SetText("show")
		}
	}
	toggle = widget.NewButton("show", func() {
		app.SetPromptVisible(!app.PromptVisible())
		update()
	})
	toggle.Importance = widget.LowImportance
	update()

	header := container.NewHBox(widget.NewLabel("Prompt"), layout.NewSpacer(), toggle)
	return container.NewVBox(header, entry)
}

// NewFormatPicker builds the raw/markdown radio for the response.
func NewFormatPicker(app *state.AppState) fyne.CanvasObject {
	radio := widget.NewRadioGroup([]string{state.FormatRaw, state.FormatMarkdown}, func(v string) {
		if v != "" {
			app.SetResponseFormat(v)
		}
	})
	radio.Horizontal = true
	radio.Required = true
	radio.SetSelected(app.ResponseFormat())
	return radio
}
