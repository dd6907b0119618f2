package state

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"Whiteboard/internal/geom"
)

// ErrUnknownKind is returned when a document names a shape kind the board
// does not know how to draw.
var ErrUnknownKind = errors.New("unknown shape kind")

// Kind tags the variant of a Shape. The values are the wire names.
type Kind string

const (
	KindPen        Kind = "pen"
	KindEraser     Kind = "eraser"
	KindRectangle  Kind = "rectangle"
	KindCircle     Kind = "circle"
	KindLine       Kind = "line"
	KindText       Kind = "text"
	KindStartEvent Kind = "startEvent"
	KindEndEvent   Kind = "endEvent"
	KindGateway    Kind = "gateway"
	KindTask       Kind = "task"
)

// Kinds lists every drawable kind in toolbar order.
var Kinds = []Kind{
	KindPen, KindEraser, KindRectangle, KindCircle, KindLine, KindText,
	KindStartEvent, KindEndEvent, KindGateway, KindTask,
}

func (k Kind) Valid() bool {
	switch k {
	case KindPen, KindEraser, KindRectangle, KindCircle, KindLine, KindText,
		KindStartEvent, KindEndEvent, KindGateway, KindTask:
		return true
	}
	return false
}

// IsStroke reports whether k is a free-form stroke built from sampled points.
func (k Kind) IsStroke() bool {
	return k == KindPen || k == KindEraser
}

// IsEvent reports whether k is a BPMN start or end event.
func (k Kind) IsEvent() bool {
	return k == KindStartEvent || k == KindEndEvent
}

// LineStyle is the dash style of a line shape.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
	LineArrow  LineStyle = "arrow"
)

func (s LineStyle) Valid() bool {
	switch s {
	case LineSolid, LineDashed, LineDotted, LineArrow:
		return true
	}
	return false
}

// Dash returns the on/off dash pattern for s; nil means a continuous line.
func (s LineStyle) Dash() []float64 {
	switch s {
	case LineDashed:
		return []float64{5, 5}
	case LineDotted:
		return []float64{2, 2}
	}
	return nil
}

const (
	// EraserColor is painted by eraser strokes whatever the pen colour is.
	EraserColor = "#ffffff"
	// ShapeThickness is the stroke width of every non-pen, non-eraser kind.
	ShapeThickness = 2.0
	// DefaultFont is the font descriptor of text shapes.
	DefaultFont = "16px sans-serif"
	// EventInnerRatio is the inner circle radius of an event glyph relative
	// to its outer radius.
	EventInnerRatio = 0.6
)

// Style is the tool configuration applied to newly created shapes.
type Style struct {
	Color        string
	PenThickness float64
	EraserSize   float64
	LineStyle    LineStyle
	FillStyle    string
}

// Shape is one drawable object. Optional numeric fields are pointers so an
// absent value survives a JSON round trip.
type Shape struct {
	Kind      Kind         `json:"type"`
	StartX    float64      `json:"startX"`
	StartY    float64      `json:"startY"`
	EndX      *float64     `json:"endX,omitempty"`
	EndY      *float64     `json:"endY,omitempty"`
	Points    []geom.Point `json:"points,omitempty"`
	Width     *float64     `json:"width,omitempty"`
	Height    *float64     `json:"height,omitempty"`
	Radius    *float64     `json:"radius,omitempty"`
	Color     string       `json:"color"`
	Thickness float64      `json:"thickness"`
	FillStyle string       `json:"fillStyle,omitempty"`
	LineStyle LineStyle    `json:"lineStyle,omitempty"`
	Text      string       `json:"text,omitempty"`
	Font      string       `json:"font,omitempty"`
	ID        string       `json:"id,omitempty"`
}

func f64(v float64) *float64 { return &v }

// NewShape starts a shape of the given kind anchored at p. Stroke kinds
// begin their point sequence at the anchor. NewShape panics on an unknown
// kind: the tool set is closed and a bad value is a programming error.
func NewShape(kind Kind, p geom.Point, st Style) *Shape {
	if !kind.Valid() {
		panic(fmt.Sprintf("state: NewShape with %v: %q", ErrUnknownKind, kind))
	}
	s := &Shape{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartX:    p.X,
		StartY:    p.Y,
		Color:     st.Color,
		Thickness: ShapeThickness,
		FillStyle: st.FillStyle,
	}
	switch kind {
	case KindPen:
		s.Thickness = st.PenThickness
		s.Points = []geom.Point{p}
	case KindEraser:
		s.Color = EraserColor
		s.Thickness = st.EraserSize
		s.FillStyle = ""
		s.Points = []geom.Point{p}
	case KindLine:
		s.LineStyle = st.LineStyle
	case KindText:
		s.Thickness = st.PenThickness
		s.Font = DefaultFont
		s.FillStyle = ""
	}
	return s
}

// NewText builds a finished text shape with its measured box.
func NewText(p geom.Point, content string, width, height float64, st Style) *Shape {
	s := NewShape(KindText, p, st)
	s.Text = content
	s.Width = f64(width)
	s.Height = f64(height)
	return s
}

// Anchor returns the start point.
func (s *Shape) Anchor() geom.Point {
	return geom.Pt(s.StartX, s.StartY)
}

// End returns the end point when both coordinates are present.
func (s *Shape) End() (geom.Point, bool) {
	if s.EndX == nil || s.EndY == nil {
		return geom.Point{}, false
	}
	return geom.Pt(*s.EndX, *s.EndY), true
}

func (s *Shape) setEnd(p geom.Point) {
	s.EndX, s.EndY = f64(p.X), f64(p.Y)
}

// Extend feeds the next pointer position of the gesture building s.
func (s *Shape) Extend(p geom.Point) {
	s.setEnd(p)
	switch {
	case s.Kind.IsStroke():
		s.Points = append(s.Points, p)
	case s.Kind == KindRectangle, s.Kind == KindTask, s.Kind == KindGateway:
		s.Width = f64(p.X - s.StartX)
		s.Height = f64(p.Y - s.StartY)
	case s.Kind == KindCircle, s.Kind.IsEvent():
		s.Radius = f64(geom.Distance(s.Anchor(), p))
	}
}

// Move translates every position-bearing field by (dx, dy). Sizes and
// radii are left alone.
func (s *Shape) Move(dx, dy float64) {
	s.StartX += dx
	s.StartY += dy
	if s.EndX != nil {
		*s.EndX += dx
	}
	if s.EndY != nil {
		*s.EndY += dy
	}
	for i := range s.Points {
		s.Points[i] = s.Points[i].Add(dx, dy)
	}
}

// box returns the stored box of a bounded kind, not canonicalised.
func (s *Shape) box() (geom.Box, bool) {
	if s.Width != nil && s.Height != nil {
		return geom.Rect(s.StartX, s.StartY, *s.Width, *s.Height), true
	}
	if end, ok := s.End(); ok {
		return geom.BoxOf(s.Anchor(), end), true
	}
	return geom.Box{}, false
}

// radius returns the circle radius, falling back to the anchor-end distance
// for circles written without one.
func (s *Shape) radius() (float64, bool) {
	if s.Radius != nil {
		return *s.Radius, true
	}
	if end, ok := s.End(); ok && s.Kind == KindCircle {
		return geom.Distance(s.Anchor(), end), true
	}
	return 0, false
}

// Box is the box of a rectangle, task, gateway or text shape.
func (s *Shape) Box() (geom.Box, bool) {
	switch s.Kind {
	case KindRectangle, KindTask, KindGateway, KindText:
		return s.box()
	}
	return geom.Box{}, false
}

// Circle returns the center and radius of a circle or event shape.
func (s *Shape) Circle() (geom.Point, float64, bool) {
	if s.Kind != KindCircle && !s.Kind.IsEvent() {
		return geom.Point{}, 0, false
	}
	r, ok := s.radius()
	return s.Anchor(), r, ok
}

// Normalize rewrites an inverted rectangle, task or gateway so that its
// anchor is the top-left corner. Called once the shape is finished.
func (s *Shape) Normalize() {
	switch s.Kind {
	case KindRectangle, KindTask, KindGateway:
	default:
		return
	}
	b, ok := s.box()
	if !ok || !b.Inverted() {
		return
	}
	c := b.Canon()
	s.StartX, s.StartY = c.Min.X, c.Min.Y
	s.setEnd(c.Max)
	s.Width, s.Height = f64(c.Width()), f64(c.Height())
}

// Contains reports whether p selects s. Strokes are never selectable.
func (s *Shape) Contains(p geom.Point) bool {
	switch s.Kind {
	case KindRectangle, KindTask, KindGateway, KindText:
		b, ok := s.box()
		return ok && geom.PointInBox(p, b.Canon())
	case KindCircle, KindStartEvent, KindEndEvent:
		c, r, ok := s.Circle()
		return ok && geom.PointInCircle(p, c, r)
	case KindLine:
		end, ok := s.End()
		return ok && geom.PointNearSegment(p, s.Anchor(), end, geom.SegmentTolerance)
	}
	return false
}

// Bounds returns the area covered by s, stroke width included.
func (s *Shape) Bounds() (geom.Box, bool) {
	var (
		b  geom.Box
		ok bool
	)
	switch s.Kind {
	case KindPen, KindEraser:
		b, ok = geom.BoundsOf(s.Points)
	case KindRectangle, KindTask, KindGateway, KindText:
		b, ok = s.box()
	case KindCircle, KindStartEvent, KindEndEvent:
		var r float64
		r, ok = s.radius()
		b = geom.BoxOf(s.Anchor().Add(-r, -r), s.Anchor().Add(r, r))
	case KindLine:
		var end geom.Point
		end, ok = s.End()
		b = geom.BoxOf(s.Anchor(), end)
		if s.LineStyle == LineArrow {
			b = b.Pad(geom.ArrowHeadLength)
		}
	}
	if !ok {
		return geom.Box{}, false
	}
	return b.Pad(s.Thickness / 2), true
}

// Clone returns a deep copy of s.
func (s *Shape) Clone() *Shape {
	c := *s
	if s.EndX != nil {
		c.EndX = f64(*s.EndX)
	}
	if s.EndY != nil {
		c.EndY = f64(*s.EndY)
	}
	if s.Width != nil {
		c.Width = f64(*s.Width)
	}
	if s.Height != nil {
		c.Height = f64(*s.Height)
	}
	if s.Radius != nil {
		c.Radius = f64(*s.Radius)
	}
	if s.Points != nil {
		c.Points = append([]geom.Point(nil), s.Points...)
	}
	return &c
}
