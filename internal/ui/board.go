package ui

import (
	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"doodlz/internal/board"
	"doodlz/internal/capture"
)

// boardView displays the shared canvas raster and feeds local pointer
// input into the capture state machine. Whether input has any effect
// is decided in the capture layer, not here.
type boardView struct {
	widget.BaseWidget
	cap    *capture.Capturer
	canvas *board.Canvas
	img    *fynecanvas.Image
}

var _ fyne.Widget = (*boardView)(nil)
var _ fyne.Draggable = (*boardView)(nil)
var _ desktop.Mouseable = (*boardView)(nil)

func newBoardView(c *board.Canvas, cap *capture.Capturer) *boardView {
	b := &boardView{cap: cap, canvas: c}
	b.img = fynecanvas.NewImageFromImage(c.Image())
	b.img.FillMode = fynecanvas.ImageFillStretch
	b.img.ScaleMode = fynecanvas.ImageScaleFastest
	w, h := c.Size()
	b.img.SetMinSize(fyne.NewSize(float32(w)/2, float32(h)/2))
	b.ExtendBaseWidget(b)
	return b
}

func (b *boardView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.img)
}

// repaint refreshes the rendered raster; call on the fyne goroutine.
func (b *boardView) repaint() {
	b.img.Refresh()
}

func (b *boardView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	x, y := b.toCanvas(ev.Position)
	b.cap.Begin(x, y)
	b.repaint()
}

func (b *boardView) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	b.cap.End()
	b.repaint()
}

func (b *boardView) Dragged(ev *fyne.DragEvent) {
	x, y := b.toCanvas(ev.Position)
	b.cap.Move(x, y)
	b.repaint()
}

func (b *boardView) DragEnd() {
	b.cap.End()
	b.repaint()
}

func (b *boardView) MouseIn(*desktop.MouseEvent)    {}
func (b *boardView) MouseOut()                      {}
func (b *boardView) MouseMoved(*desktop.MouseEvent) {}

// toCanvas maps a widget position onto raster coordinates.
func (b *boardView) toCanvas(pos fyne.Position) (float64, float64) {
	w, h := b.canvas.Size()
	size := b.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return float64(pos.X), float64(pos.Y)
	}
	return float64(pos.X) * float64(w) / float64(size.Width),
		float64(pos.Y) * float64(h) / float64(size.Height)
}
