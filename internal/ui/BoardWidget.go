package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"Whiteboard/internal/board"
	"Whiteboard/internal/geom"
	"Whiteboard/internal/render"
)

// BoardWidget shows the controller's surface and feeds it pointer input.
// One surface pixel is one fyne unit.
type BoardWidget struct {
	widget.BaseWidget
	board   *board.Controller
	surface *render.Surface
	image   *canvas.Image
	entry   *textOverlay
	overlay *fyne.Container
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(c *board.Controller, s *render.Surface) *BoardWidget {
	b := &BoardWidget{board: c, surface: s}
	b.image = canvas.NewImageFromImage(s.Image())
	b.image.FillMode = canvas.ImageFillStretch
	b.image.ScaleMode = canvas.ImageScalePixels
	b.image.SetMinSize(fyne.NewSize(300, 300))

	b.entry = newTextOverlay()
	b.entry.SetPlaceHolder("Type, then Enter")
	b.entry.OnChanged = c.SetTextContent
	b.entry.OnSubmitted = func(string) { b.commitText() }
	b.entry.onBlur = b.commitText
	b.entry.onCancel = func() {
		c.CancelText()
		b.sync(false)
	}
	b.entry.Hide()
	b.overlay = container.NewWithoutLayout(b.entry)

	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) commitText() {
	b.board.CommitText()
	b.sync(false)
}

// sync copies the controller's surface and overlay state to the screen.
func (b *BoardWidget) sync(focus bool) {
	b.image.Image = b.surface.Image()
	b.image.Refresh()

	te := b.board.TextEntry()
	if !te.Active() {
		if b.entry.Visible() {
			b.entry.Hide()
		}
		return
	}
	if !b.entry.Visible() {
		pos := te.Position()
		b.entry.SetText(te.Content())
		b.entry.Move(fyne.NewPos(float32(pos.X), float32(pos.Y)))
		b.entry.Resize(fyne.NewSize(220, b.entry.MinSize().Height))
		b.entry.Show()
	}
	if focus {
		if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
			c.Focus(b.entry)
		}
	}
}

// Refresh repaints from the controller; used after commands change the
// board from outside the widget.
func (b *BoardWidget) Refresh() {
	b.sync(false)
	b.BaseWidget.Refresh()
}

func (b *BoardWidget) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	w, h := int(size.Width), int(size.Height)
	if cw, ch := b.surface.Size(); cw == w && ch == h {
		return
	}
	b.board.Resize(w, h)
	b.sync(false)
}

func toPoint(p fyne.Position) geom.Point {
	return geom.Pt(float64(p.X), float64(p.Y))
}

func buttonOf(m desktop.MouseButton) (board.Button, bool) {
	switch m {
	case desktop.MouseButtonPrimary:
		return board.ButtonPrimary, true
	case desktop.MouseButtonSecondary:
		return board.ButtonSecondary, true
	case desktop.MouseButtonTertiary:
		return board.ButtonTertiary, true
	}
	return 0, false
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	btn, ok := buttonOf(e.Button)
	if !ok {
		return
	}
	// a press anywhere on the board closes an open overlay first
	if b.entry.Visible() {
		b.commitText()
	}
	b.board.PointerDown(board.PointerEvent{
		Pos:    toPoint(e.Position),
		Button: btn,
		Shift:  e.Modifier&fyne.KeyModifierShift != 0,
	})
	b.sync(false)
}

// MouseUp and DragEnd both end the gesture; the controller ignores the second.
func (b *BoardWidget) MouseUp(*desktop.MouseEvent) {
	b.board.PointerUp()
	b.sync(true)
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.board.PointerMove(toPoint(e.Position))
	b.sync(false)
}

func (b *BoardWidget) DragEnd() {
	b.board.PointerUp()
	b.sync(true)
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(b.image, b.overlay))
}

// textOverlay is the entry floating over the board while a text shape is
// typed. Losing focus commits, Escape cancels.
type textOverlay struct {
	widget.Entry
	onBlur   func()
	onCancel func()
}

func newTextOverlay() *textOverlay {
	e := &textOverlay{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *textOverlay) FocusLost() {
	e.Entry.FocusLost()
	if e.onBlur != nil && e.Visible() {
		e.onBlur()
	}
}

func (e *textOverlay) TypedKey(k *fyne.KeyEvent) {
	if k.Name == fyne.KeyEscape && e.onCancel != nil {
		e.onCancel()
		return
	}
	e.Entry.TypedKey(k)
}
