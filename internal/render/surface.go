package render

import (
	"image"

	"github.com/fogleman/gg"

	"Whiteboard/internal/geom"
	"Whiteboard/internal/state"
)

// Surface is the retained pixel buffer behind the board. Full repaints
// replace it; stroke previews draw single segments onto it.
type Surface struct {
	img *image.RGBA
}

// NewSurface returns a blank w x h surface.
func NewSurface(w, h int) *Surface {
	s := &Surface{}
	s.Resize(w, h)
	return s
}

// Resize discards the pixel content. The caller repaints from its shapes.
func (s *Surface) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (w, h int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Repaint redraws the whole surface from shapes.
func (s *Surface) Repaint(shapes state.ShapeList) {
	w, h := s.Size()
	s.img = Repaint(shapes, w, h)
}

// DrawSegment draws only the newest segment of a stroke under construction.
func (s *Surface) DrawSegment(sh *state.Shape, from, to geom.Point) {
	w, h := s.Size()
	if w == 0 || h == 0 {
		return
	}
	if sh.Kind == state.KindEraser {
		erase(s.img, []geom.Point{from, to}, sh.Thickness)
		return
	}
	dc := gg.NewContextForRGBA(s.img)
	applyStyle(dc, sh)
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	dc.Stroke()
}

// Image returns the current frame. It is replaced, not mutated, by Repaint
// and Resize but DrawSegment writes into it.
func (s *Surface) Image() image.Image {
	return s.img
}
