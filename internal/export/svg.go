package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"Whiteboard/internal/geom"
	"Whiteboard/internal/render"
	"Whiteboard/internal/state"
)

func ri(v float64) int {
	return int(math.Round(v))
}

func coords(pts ...geom.Point) (xs, ys []int) {
	xs, ys = make([]int, len(pts)), make([]int, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = ri(p.X), ri(p.Y)
	}
	return xs, ys
}

func hexOr(s, def string) string {
	c, err := render.ParseColor(s)
	if err != nil {
		return def
	}
	return render.Hex(c)
}

// svgStyle is the inline style of a shape outline.
func svgStyle(s *state.Shape, fill string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fill:%s;stroke:%s;stroke-width:%g;stroke-linecap:round;stroke-linejoin:round",
		fill, hexOr(s.Color, "#000000"), s.Thickness)
	if dash := s.LineStyle.Dash(); dash != nil {
		fmt.Fprintf(&b, ";stroke-dasharray:%g,%g", dash[0], dash[1])
	}
	return b.String()
}

func fillOf(s *state.Shape) string {
	if s.FillStyle == "" {
		return "none"
	}
	return hexOr(s.FillStyle, "none")
}

// SVG writes doc as an SVG document. Like PDF, eraser strokes are painted
// white rather than cut out.
func SVG(w io.Writer, doc state.ShapeList, o Options) error {
	width, height, err := o.Size(doc)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+hexOr(o.background(), "#ffffff"))
	for _, s := range doc {
		if s != nil {
			svgShape(canvas, s)
		}
	}
	canvas.End()
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}
	return nil
}

func svgShape(canvas *svg.SVG, s *state.Shape) {
	switch s.Kind {
	case state.KindPen, state.KindEraser:
		if len(s.Points) == 0 {
			return
		}
		pts := s.Points
		if len(pts) == 1 {
			pts = []geom.Point{pts[0], pts[0]}
		}
		xs, ys := coords(pts...)
		canvas.Polyline(xs, ys, svgStyle(s, "none"))

	case state.KindRectangle:
		b, ok := s.Box()
		if !ok {
			return
		}
		b = b.Canon()
		canvas.Rect(ri(b.Min.X), ri(b.Min.Y), ri(b.Width()), ri(b.Height()), svgStyle(s, fillOf(s)))

	case state.KindCircle:
		c, r, ok := s.Circle()
		if !ok {
			return
		}
		canvas.Circle(ri(c.X), ri(c.Y), ri(r), svgStyle(s, fillOf(s)))

	case state.KindLine:
		end, ok := s.End()
		if !ok {
			return
		}
		canvas.Line(ri(s.StartX), ri(s.StartY), ri(end.X), ri(end.Y), svgStyle(s, "none"))
		if s.LineStyle == state.LineArrow {
			left, right := geom.ArrowHead(s.Anchor(), end, geom.ArrowHeadLength)
			xs, ys := coords(end, left, right)
			canvas.Polygon(xs, ys, "fill:"+hexOr(s.Color, "#000000"))
		}

	case state.KindText:
		if s.Text == "" {
			return
		}
		f := render.ParseFont(s.Font)
		weight := "normal"
		if f.Bold {
			weight = "bold"
		}
		canvas.Text(ri(s.StartX), ri(s.StartY+f.Size), s.Text,
			fmt.Sprintf("font-family:%s;font-size:%gpx;font-weight:%s;fill:%s",
				f.Family, f.Size, weight, hexOr(s.Color, "#000000")))

	case state.KindStartEvent, state.KindEndEvent:
		c, r, ok := s.Circle()
		if !ok {
			return
		}
		canvas.Circle(ri(c.X), ri(c.Y), ri(r), svgStyle(s, fillOf(s)))
		inner := "none"
		if s.Kind == state.KindEndEvent {
			inner = hexOr(s.Color, "#000000")
		}
		canvas.Circle(ri(c.X), ri(c.Y), ri(r*state.EventInnerRatio), svgStyle(s, inner))

	case state.KindGateway:
		b, ok := s.Box()
		if !ok {
			return
		}
		d := geom.Diamond(b)
		xs, ys := coords(d[:]...)
		canvas.Polygon(xs, ys, svgStyle(s, fillOf(s)))

	case state.KindTask:
		b, ok := s.Box()
		if !ok {
			return
		}
		b = b.Canon()
		r := ri(math.Min(render.TaskCornerRadius, math.Min(b.Width(), b.Height())/2))
		canvas.Roundrect(ri(b.Min.X), ri(b.Min.Y), ri(b.Width()), ri(b.Height()), r, r, svgStyle(s, fillOf(s)))
	}
}
