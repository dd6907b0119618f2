// Package render rasterises shape lists. Repaint is a pure function of the
// shapes and the surface size; Surface keeps the last frame around for the
// incremental stroke preview.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"

	"Whiteboard/internal/geom"
	"Whiteboard/internal/state"
)

// Repaint draws shapes in order onto a new transparent w x h image.
func Repaint(shapes state.ShapeList, w, h int) *image.RGBA {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img
	}
	dc := gg.NewContextForRGBA(img)
	for _, s := range shapes {
		if s != nil {
			drawShape(dc, img, s)
		}
	}
	return img
}

func applyStyle(dc *gg.Context, s *state.Shape) {
	dc.ClearPath()
	dc.SetColor(colorOr(s.Color, color.Black))
	dc.SetLineWidth(s.Thickness)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	dc.SetDash(s.LineStyle.Dash()...)
}

func drawShape(dc *gg.Context, img *image.RGBA, s *state.Shape) {
	applyStyle(dc, s)

	switch s.Kind {
	case state.KindPen:
		if polyline(dc, s.Points) {
			dc.Stroke()
		}

	case state.KindEraser:
		erase(img, s.Points, s.Thickness)

	case state.KindRectangle:
		b, ok := s.Box()
		if !ok {
			return
		}
		b = b.Canon()
		dc.DrawRectangle(b.Min.X, b.Min.Y, b.Width(), b.Height())
		fillAndStroke(dc, s)

	case state.KindCircle:
		c, r, ok := s.Circle()
		if !ok {
			return
		}
		dc.DrawCircle(c.X, c.Y, r)
		fillAndStroke(dc, s)

	case state.KindLine:
		end, ok := s.End()
		if !ok {
			return
		}
		dc.DrawLine(s.StartX, s.StartY, end.X, end.Y)
		dc.Stroke()
		if s.LineStyle == state.LineArrow {
			arrowHead(dc, s.Anchor(), end)
		}

	case state.KindText:
		drawText(dc, s)

	case state.KindStartEvent, state.KindEndEvent:
		c, r, ok := s.Circle()
		if !ok {
			return
		}
		dc.DrawCircle(c.X, c.Y, r)
		fillAndStroke(dc, s)
		dc.DrawCircle(c.X, c.Y, r*state.EventInnerRatio)
		if s.Kind == state.KindEndEvent {
			dc.FillPreserve()
		}
		dc.Stroke()

	case state.KindGateway:
		b, ok := s.Box()
		if !ok {
			return
		}
		d := geom.Diamond(b)
		appendPath(dc, geom.Polygon(d[:]...))
		fillAndStroke(dc, s)

	case state.KindTask:
		b, ok := s.Box()
		if !ok {
			return
		}
		appendPath(dc, geom.RoundedRectPath(b, TaskCornerRadius))
		fillAndStroke(dc, s)
	}
}

// TaskCornerRadius is the corner radius of task boxes.
const TaskCornerRadius = 10

// polyline adds the stroke path through points. The first point is repeated
// so that a single-point stroke still leaves a round dot.
func polyline(dc *gg.Context, points []geom.Point) bool {
	if len(points) == 0 {
		return false
	}
	dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points {
		dc.LineTo(p.X, p.Y)
	}
	return true
}

func appendPath(dc *gg.Context, p geom.Path) {
	for _, seg := range p {
		switch seg.Op {
		case geom.MoveTo:
			dc.MoveTo(seg.To.X, seg.To.Y)
		case geom.LineTo:
			dc.LineTo(seg.To.X, seg.To.Y)
		case geom.ArcTo:
			dc.DrawArc(seg.Center.X, seg.Center.Y, seg.Radius, seg.Start, seg.End)
		case geom.Close:
			dc.ClosePath()
		}
	}
}

// fillAndStroke fills the current path when the shape has a fill style and
// then strokes it with the shape colour.
func fillAndStroke(dc *gg.Context, s *state.Shape) {
	if s.FillStyle != "" {
		dc.SetColor(colorOr(s.FillStyle, color.Transparent))
		dc.FillPreserve()
		dc.SetColor(colorOr(s.Color, color.Black))
	}
	dc.Stroke()
}

func arrowHead(dc *gg.Context, from, to geom.Point) {
	left, right := geom.ArrowHead(from, to, geom.ArrowHeadLength)
	dc.SetDash()
	appendPath(dc, geom.Polygon(to, left, right))
	dc.Fill()
}

func drawText(dc *gg.Context, s *state.Shape) {
	if s.Text == "" {
		return
	}
	f := ParseFont(s.Font)
	face, err := f.Face()
	if err != nil {
		return
	}
	defer face.Close()
	dc.SetFontFace(face)
	dc.DrawString(s.Text, s.StartX, s.StartY+f.Size)
}

// erase clears the pixels under the stroke through points, the equivalent
// of a destination-out composite: earlier strokes are cut away rather than
// painted over.
func erase(img *image.RGBA, points []geom.Point, width float64) {
	if len(points) == 0 {
		return
	}
	b := img.Bounds()
	mc := gg.NewContext(b.Dx(), b.Dy())
	mc.SetColor(color.Opaque)
	mc.SetLineWidth(width)
	mc.SetLineCapRound()
	mc.SetLineJoinRound()
	polyline(mc, points)
	mc.Stroke()
	cutOut(img, mc.AsMask())
}

// cutOut scales every pixel of img by the inverse of the mask coverage.
func cutOut(img *image.RGBA, mask *image.Alpha) {
	b := img.Bounds().Intersect(mask.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := uint32(mask.AlphaAt(x, y).A)
			if m == 0 {
				continue
			}
			keep := 0xff - m
			i := img.PixOffset(x, y)
			for k := 0; k < 4; k++ {
				img.Pix[i+k] = uint8(uint32(img.Pix[i+k]) * keep / 0xff)
			}
		}
	}
}

// Flatten composites img over an opaque background.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
