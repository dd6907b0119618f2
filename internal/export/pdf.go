package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"Whiteboard/internal/geom"
	"Whiteboard/internal/render"
	"Whiteboard/internal/state"
)

// arcSteps is the number of segments per quarter-circle task corner.
const arcSteps = 8

// PDF writes doc as a single vector page, one point per canvas pixel.
// Eraser strokes are painted in their own white, as a PDF page has no
// destination-out compositing.
func PDF(w io.Writer, doc state.ShapeList, o Options) error {
	width, height, err := o.Size(doc)
	if err != nil {
		return err
	}
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	if r, g, b, ok := rgb(o.background()); ok {
		p.SetFillColor(r, g, b)
		p.Rect(0, 0, float64(width), float64(height), "F")
	}

	for _, s := range doc {
		if s != nil {
			pdfShape(p, s)
		}
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func pdfShape(p *gofpdf.Fpdf, s *state.Shape) {
	r, g, b, ok := rgb(s.Color)
	if !ok {
		r, g, b = 0, 0, 0
	}
	p.SetDrawColor(r, g, b)
	p.SetLineWidth(s.Thickness)
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	if dash := s.LineStyle.Dash(); dash != nil {
		p.SetDashPattern(dash, 0)
	} else {
		p.SetDashPattern([]float64{}, 0)
	}

	style := "D"
	if fr, fg, fb, ok := rgb(s.FillStyle); ok && s.FillStyle != "" {
		p.SetFillColor(fr, fg, fb)
		style = "FD"
	}

	switch s.Kind {
	case state.KindPen, state.KindEraser:
		if len(s.Points) == 0 {
			return
		}
		p.MoveTo(s.Points[0].X, s.Points[0].Y)
		for _, pt := range s.Points {
			p.LineTo(pt.X, pt.Y)
		}
		p.DrawPath("D")

	case state.KindRectangle:
		box, ok := s.Box()
		if !ok {
			return
		}
		box = box.Canon()
		p.Rect(box.Min.X, box.Min.Y, box.Width(), box.Height(), style)

	case state.KindCircle:
		c, radius, ok := s.Circle()
		if !ok {
			return
		}
		p.Circle(c.X, c.Y, radius, style)

	case state.KindLine:
		end, ok := s.End()
		if !ok {
			return
		}
		p.Line(s.StartX, s.StartY, end.X, end.Y)
		if s.LineStyle == state.LineArrow {
			left, right := geom.ArrowHead(s.Anchor(), end, geom.ArrowHeadLength)
			p.SetDashPattern([]float64{}, 0)
			p.SetFillColor(r, g, b)
			p.Polygon(pdfPoints(end, left, right), "F")
		}

	case state.KindText:
		if s.Text == "" {
			return
		}
		f := render.ParseFont(s.Font)
		fontStyle := ""
		if f.Bold {
			fontStyle = "B"
		}
		p.SetFont(pdfFamily(f.Family), fontStyle, f.Size)
		p.SetTextColor(r, g, b)
		p.Text(s.StartX, s.StartY+f.Size, s.Text)

	case state.KindStartEvent, state.KindEndEvent:
		c, radius, ok := s.Circle()
		if !ok {
			return
		}
		p.Circle(c.X, c.Y, radius, style)
		inner := "D"
		if s.Kind == state.KindEndEvent {
			p.SetFillColor(r, g, b)
			inner = "FD"
		}
		p.Circle(c.X, c.Y, radius*state.EventInnerRatio, inner)

	case state.KindGateway:
		box, ok := s.Box()
		if !ok {
			return
		}
		d := geom.Diamond(box)
		p.Polygon(pdfPoints(d[:]...), style)

	case state.KindTask:
		box, ok := s.Box()
		if !ok {
			return
		}
		p.Polygon(pdfPoints(geom.RoundedRectPath(box, render.TaskCornerRadius).Flatten(arcSteps)...), style)
	}
}

func pdfPoints(pts ...geom.Point) []gofpdf.PointType {
	out := make([]gofpdf.PointType, len(pts))
	for i, pt := range pts {
		out[i] = gofpdf.PointType{X: pt.X, Y: pt.Y}
	}
	return out
}

// pdfFamily maps a CSS generic family onto a PDF core font.
func pdfFamily(family string) string {
	switch family {
	case "monospace", "courier", "Courier":
		return "Courier"
	case "serif", "times", "Times":
		return "Times"
	}
	return "Helvetica"
}
