// Package board turns pointer gestures and toolbar commands into edits of a
// shape list, keeps the undo history and drives the display.
package board

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"math"

	"Whiteboard/internal/geom"
	"Whiteboard/internal/render"
	"Whiteboard/internal/state"
	"Whiteboard/internal/store"
)

var (
	// ErrGestureActive is returned by commands issued while a stroke, drag
	// or text entry is in progress.
	ErrGestureActive = errors.New("gesture in progress")
	// ErrInvalidConfig is returned by setters given an unusable value.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// State is the gesture state of the controller.
type State int

const (
	Idle State = iota
	Constructing
	Dragging
	TextEditing
)

func (s State) String() string {
	switch s {
	case Constructing:
		return "constructing"
	case Dragging:
		return "dragging"
	case TextEditing:
		return "text-editing"
	}
	return "idle"
}

// Button is a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonTertiary
)

// PointerEvent is a press on the board. Shift draws even over an existing
// shape instead of picking it up.
type PointerEvent struct {
	Pos    geom.Point
	Button Button
	Shift  bool
}

// Display is the pixel surface the controller paints on.
type Display interface {
	Repaint(shapes state.ShapeList)
	DrawSegment(s *state.Shape, from, to geom.Point)
	Resize(w, h int)
	Image() image.Image
}

// Controller owns the live shape list and its history. It is not safe for
// concurrent use; every call is expected on the UI goroutine.
type Controller struct {
	display  Display
	measurer TextMeasurer

	shapes  state.ShapeList
	history *state.History
	clock   state.Clock

	tool  state.Kind
	style state.Style

	mode     State
	current  *state.Shape
	selected *state.Shape
	last     geom.Point
	text     TextEntry

	subs    []subscription
	nextSub int
}

// NewController returns an idle controller with an empty board, the pen tool
// selected and style as the initial configuration.
func NewController(display Display, measurer TextMeasurer, style state.Style) *Controller {
	if style.LineStyle == "" {
		style.LineStyle = state.LineSolid
	}
	if !positive(style.PenThickness) {
		style.PenThickness = defaultPenThickness
	}
	if !positive(style.EraserSize) {
		style.EraserSize = defaultEraserSize
	}
	return &Controller{
		display:  display,
		measurer: measurer,
		history:  state.NewHistory(),
		tool:     state.KindPen,
		style:    style,
	}
}

func (c *Controller) State() State { return c.mode }

func (c *Controller) Tool() state.Kind { return c.tool }

func (c *Controller) Style() state.Style { return c.style }

// Shapes returns a copy of the live shape list.
func (c *Controller) Shapes() state.ShapeList { return c.shapes.Clone() }

func (c *Controller) CanUndo() bool { return c.history.CanUndo() }

func (c *Controller) CanRedo() bool { return c.history.CanRedo() }

// TextEntry exposes the overlay state for the shell that draws the field.
func (c *Controller) TextEntry() *TextEntry { return &c.text }

// SetTool selects the kind of shape later gestures create. An open text
// entry is committed first.
func (c *Controller) SetTool(k state.Kind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: tool %q", ErrInvalidConfig, k)
	}
	if c.mode == TextEditing {
		c.CommitText()
	}
	c.tool = k
	return nil
}

const (
	defaultPenThickness = 1
	defaultEraserSize   = 50
)

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func (c *Controller) SetPenThickness(v float64) error {
	if !positive(v) {
		return fmt.Errorf("%w: pen thickness %v", ErrInvalidConfig, v)
	}
	c.style.PenThickness = v
	return nil
}

func (c *Controller) SetEraserSize(v float64) error {
	if !positive(v) {
		return fmt.Errorf("%w: eraser size %v", ErrInvalidConfig, v)
	}
	c.style.EraserSize = v
	return nil
}

func (c *Controller) SetPenColor(s string) error {
	if _, err := render.ParseColor(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.style.Color = s
	return nil
}

func (c *Controller) SetLineStyle(s state.LineStyle) error {
	if !s.Valid() {
		return fmt.Errorf("%w: line style %q", ErrInvalidConfig, s)
	}
	c.style.LineStyle = s
	return nil
}

// SetFillStyle sets the fill of later closed shapes. Empty means no fill.
func (c *Controller) SetFillStyle(s string) error {
	if s != "" {
		if _, err := render.ParseColor(s); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	c.style.FillStyle = s
	return nil
}

// PointerDown starts a gesture. A press on a shape picks it up for dragging;
// anywhere else, or with Shift held, a new shape is started and committed to
// the history straight away.
func (c *Controller) PointerDown(ev PointerEvent) {
	if ev.Button != ButtonPrimary {
		return
	}
	switch c.mode {
	case Constructing, Dragging:
		// the release was lost somewhere outside the window
		c.PointerUp()
	case TextEditing:
		c.CommitText()
	}

	if c.tool == state.KindText {
		c.text.Begin(ev.Pos)
		c.mode = TextEditing
		return
	}

	if !ev.Shift {
		if _, hit := c.shapes.HitTest(ev.Pos); hit != nil {
			c.selected = hit
			c.last = ev.Pos
			c.mode = Dragging
			return
		}
	}

	s := state.NewShape(c.tool, ev.Pos, c.style)
	c.shapes = append(c.shapes, s)
	c.current = s
	c.last = ev.Pos
	c.mode = Constructing
	c.history.Commit(c.shapes)

	if s.Kind.IsStroke() {
		c.display.DrawSegment(s, ev.Pos, ev.Pos)
	} else {
		c.display.Repaint(c.shapes)
	}
	c.publish()
}

// PointerMove feeds the pointer position to the gesture in progress.
func (c *Controller) PointerMove(p geom.Point) {
	switch c.mode {
	case Dragging:
		d := p.Sub(c.last)
		c.selected.Move(d.X, d.Y)
		c.last = p
		c.display.Repaint(c.shapes)
		c.publish()

	case Constructing:
		prev := c.last
		c.current.Extend(p)
		c.last = p
		if c.current.Kind.IsStroke() {
			c.display.DrawSegment(c.current, prev, p)
		} else {
			c.display.Repaint(c.shapes)
		}
		c.publish()
	}
}

// PointerUp ends a stroke or drag. A finished shape is normalised and
// recorded into the snapshot taken when it was started, so no new undo step
// is added. Calling it with no gesture in progress does nothing.
func (c *Controller) PointerUp() {
	switch c.mode {
	case Constructing:
		c.current.Normalize()
		c.history.Seal(c.shapes)
		c.current = nil
		c.mode = Idle
		c.display.Repaint(c.shapes)
		c.publish()

	case Dragging:
		c.selected = nil
		c.mode = Idle
	}
}

// SetTextContent updates the text typed into the open overlay.
func (c *Controller) SetTextContent(s string) {
	c.text.SetContent(s)
}

// CommitText closes the text overlay. Non-blank text becomes a shape and a
// history entry; it reports whether one was added.
func (c *Controller) CommitText() bool {
	if c.mode != TextEditing {
		return false
	}
	c.mode = Idle
	s, ok := c.text.Commit(c.style, c.measurer)
	if !ok {
		return false
	}
	c.shapes = append(c.shapes, s)
	c.history.Commit(c.shapes)
	c.display.Repaint(c.shapes)
	c.publish()
	return true
}

// CancelText closes the text overlay without adding anything.
func (c *Controller) CancelText() {
	if c.mode == TextEditing {
		c.text.Cancel()
		c.mode = Idle
	}
}

func (c *Controller) guard(cmd string) error {
	if c.mode != Idle {
		return fmt.Errorf("%s while %s: %w", cmd, c.mode, ErrGestureActive)
	}
	return nil
}

// replace swaps in a new live list and repaints.
func (c *Controller) replace(l state.ShapeList) {
	c.shapes = l
	c.text.Cancel()
	c.display.Repaint(c.shapes)
	c.publish()
}

// Undo steps back one history entry. With nothing to undo it is a no-op.
func (c *Controller) Undo() error {
	if err := c.guard("undo"); err != nil {
		return err
	}
	if l, ok := c.history.Undo(); ok {
		c.replace(l)
	}
	return nil
}

func (c *Controller) Redo() error {
	if err := c.guard("redo"); err != nil {
		return err
	}
	if l, ok := c.history.Redo(); ok {
		c.replace(l)
	}
	return nil
}

// Clear empties the board and forgets the history.
func (c *Controller) Clear() error {
	if err := c.guard("clear"); err != nil {
		return err
	}
	log.Printf("[BOARD] Clearing %d shapes", len(c.shapes))
	c.history.Clear()
	c.replace(nil)
	return nil
}

// Resize changes the display size and repaints from the shape list.
func (c *Controller) Resize(w, h int) {
	c.display.Resize(w, h)
	c.display.Repaint(c.shapes)
	c.publish()
}

// ApplyLoaded replaces the board with a loaded document. The history is
// reset to that single state, so the load itself cannot be undone.
func (c *Controller) ApplyLoaded(l state.ShapeList) error {
	if err := c.guard("load"); err != nil {
		return err
	}
	l = l.Clone()
	c.history.Reset(l)
	c.replace(l)
	log.Printf("[BOARD] Loaded %d shapes", len(l))
	return nil
}

// Load fetches a document and applies it. On error the board is unchanged.
func (c *Controller) Load(ctx context.Context, l store.Loader, id store.FileID) error {
	if err := c.guard("load"); err != nil {
		return err
	}
	doc, err := l.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("loading %s: %w", id, err)
	}
	return c.ApplyLoaded(doc)
}

// Save hands a copy of the current shapes to s.
func (c *Controller) Save(ctx context.Context, s store.Saver, filename string) (store.FileID, error) {
	return c.PrepareSave(filename).Save(ctx, s)
}

func (c *Controller) SaveImage(ctx context.Context, s store.ImageSaver, filename string) error {
	return c.PrepareSave(filename).SaveImage(ctx, s)
}

// SaveJob is a copy of the board taken for a save. It shares nothing with
// the controller, so its methods may run on any goroutine while the board
// keeps changing.
type SaveJob struct {
	Filename string
	Shapes   state.ShapeList
}

// PrepareSave copies the current shapes into a SaveJob.
func (c *Controller) PrepareSave(filename string) SaveJob {
	return SaveJob{Filename: filename, Shapes: c.Shapes()}
}

func (j SaveJob) Save(ctx context.Context, s store.Saver) (store.FileID, error) {
	id, err := s.Save(ctx, j.Filename, j.Shapes)
	if err != nil {
		return "", fmt.Errorf("saving %s: %w", j.Filename, err)
	}
	log.Printf("[BOARD] Saved %s as %s", j.Filename, id)
	return id, nil
}

func (j SaveJob) SaveImage(ctx context.Context, s store.ImageSaver) error {
	if err := s.SaveImage(ctx, j.Filename, j.Shapes); err != nil {
		return fmt.Errorf("saving image %s: %w", j.Filename, err)
	}
	return nil
}

// Download writes the current surface as a PNG on a white background.
func (c *Controller) Download(w io.Writer) error {
	img := render.Flatten(c.display.Image(), color.White)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
