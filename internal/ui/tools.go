package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"doodlz/internal/board"
	"doodlz/internal/capture"
)

// palette matches the original game's pen colors.
var palette = []string{"#000000", "#e74c3c", "#2ecc71", "#3498db", "#f1c40f", "#9b59b6", "#ffffff"}

// colorSwatch is a tappable color square.
type colorSwatch struct {
	widget.BaseWidget
	hex      string
	OnTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(hex string)) *colorSwatch {
	s := &colorSwatch{hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := fynecanvas.NewRectangle(board.ParseColor(s.hex))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := fynecanvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.hex)
	}
}

// newToolbar assembles the host controls: undo, clear, PDF export,
// the palette and the width slider. The capture layer re-checks host
// authority on every action, so a stale toolbar cannot draw.
func newToolbar(cap *capture.Capturer, onExport func()) fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), cap.Undo),
		widget.NewToolbarAction(theme.DeleteIcon(), cap.Clear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), onExport),
	)

	swatches := make([]fyne.CanvasObject, 0, len(palette))
	for _, hex := range palette {
		swatches = append(swatches, newColorSwatch(hex, cap.SetColor))
	}

	widthSlider := widget.NewSlider(1, 24)
	widthSlider.SetValue(cap.Style().Width)
	widthSlider.OnChanged = cap.SetWidth
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(140, 35)), widthSlider)

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		container.NewHBox(swatches...),
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderBox,
		layout.NewSpacer(),
	)
}
