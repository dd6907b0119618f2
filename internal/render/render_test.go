package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"Whiteboard/internal/geom"
	"Whiteboard/internal/state"
)

var style = state.Style{Color: "#ff0000", PenThickness: 2, EraserSize: 20, LineStyle: state.LineSolid}

func shape(kind state.Kind, from geom.Point, to ...geom.Point) *state.Shape {
	s := state.NewShape(kind, from, style)
	for _, p := range to {
		s.Extend(p)
	}
	return s
}

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func sampleBoard() state.ShapeList {
	arrow := shape(state.KindLine, geom.Pt(10, 150), geom.Pt(120, 150))
	arrow.LineStyle = state.LineArrow
	filled := shape(state.KindGateway, geom.Pt(150, 10), geom.Pt(190, 50))
	filled.FillStyle = "yellow"
	text := state.NewText(geom.Pt(20, 170), "hello", 40, 24, style)
	return state.ShapeList{
		shape(state.KindPen, geom.Pt(5, 5), geom.Pt(30, 30), geom.Pt(60, 20)),
		shape(state.KindRectangle, geom.Pt(10, 10), geom.Pt(50, 40)),
		shape(state.KindCircle, geom.Pt(100, 100), geom.Pt(120, 100)),
		arrow,
		filled,
		shape(state.KindTask, geom.Pt(60, 60), geom.Pt(140, 90)),
		shape(state.KindStartEvent, geom.Pt(200, 100), geom.Pt(215, 100)),
		shape(state.KindEndEvent, geom.Pt(200, 150), geom.Pt(215, 150)),
		text,
		shape(state.KindEraser, geom.Pt(0, 195), geom.Pt(240, 195)),
	}
}

func TestRepaintIsDeterministic(t *testing.T) {
	shapes := sampleBoard()
	a := Repaint(shapes, 240, 200)
	b := Repaint(shapes, 240, 200)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("two repaints of the same list differ")
	}
}

func TestRepaintRoundTripsThroughDocument(t *testing.T) {
	shapes := sampleBoard()
	data, err := state.Marshal(shapes)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := state.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	want := Repaint(shapes, 240, 200)
	got := Repaint(decoded, 240, 200)
	if !bytes.Equal(want.Pix, got.Pix) {
		t.Fatal("decoded document renders differently")
	}
}

func TestRepaintDrawsRectangleOutline(t *testing.T) {
	img := Repaint(state.ShapeList{shape(state.KindRectangle, geom.Pt(10, 10), geom.Pt(50, 40))}, 64, 64)
	if alphaAt(img, 30, 10) == 0 {
		t.Error("top edge not drawn")
	}
	if alphaAt(img, 30, 25) != 0 {
		t.Error("unfilled rectangle painted its interior")
	}
	if alphaAt(img, 60, 60) != 0 {
		t.Error("pixel outside the rectangle painted")
	}
}

func TestFillOnlyWhenFillStyleSet(t *testing.T) {
	r := shape(state.KindRectangle, geom.Pt(10, 10), geom.Pt(50, 40))
	r.FillStyle = "#00ff00"
	img := Repaint(state.ShapeList{r}, 64, 64)
	got := img.RGBAAt(30, 25)
	if got.G != 0xff || got.R != 0 || got.A != 0xff {
		t.Fatalf("interior = %v, want opaque green", got)
	}
}

func TestEraserClearsUnderlyingPixels(t *testing.T) {
	r := shape(state.KindRectangle, geom.Pt(10, 10), geom.Pt(50, 40))
	before := Repaint(state.ShapeList{r}, 64, 64)
	if alphaAt(before, 30, 10) == 0 {
		t.Fatal("rectangle top edge missing")
	}

	eraser := shape(state.KindEraser, geom.Pt(20, 10), geom.Pt(40, 10))
	list := state.ShapeList{r, eraser}
	after := Repaint(list, 64, 64)
	if a := alphaAt(after, 30, 10); a != 0 {
		t.Fatalf("erased pixel alpha = %d, want 0", a)
	}
	if alphaAt(after, 10, 30) == 0 {
		t.Fatal("eraser cleared pixels it did not cover")
	}
	end, _ := list[0].End()
	if list[0].StartX != 10 || end != geom.Pt(50, 40) {
		t.Fatal("erasing mutated the rectangle")
	}
}

func TestEndEventInnerCircleIsFilled(t *testing.T) {
	end := shape(state.KindEndEvent, geom.Pt(32, 32), geom.Pt(52, 32))
	start := shape(state.KindStartEvent, geom.Pt(32, 32), geom.Pt(52, 32))
	if alphaAt(Repaint(state.ShapeList{end}, 64, 64), 32, 32) == 0 {
		t.Error("end event center not filled")
	}
	if alphaAt(Repaint(state.ShapeList{start}, 64, 64), 32, 32) != 0 {
		t.Error("start event center filled")
	}
}

func TestDegenerateShapesAreSkipped(t *testing.T) {
	shapes := state.ShapeList{
		{Kind: state.KindPen, Color: "#000", Thickness: 2},
		{Kind: state.KindEraser, Color: "#fff", Thickness: 2},
		{Kind: state.KindRectangle, Color: "#000", Thickness: 2},
		{Kind: state.KindStartEvent, Color: "#000", Thickness: 2},
		{Kind: state.KindGateway, Color: "not a colour", Thickness: 2},
		{Kind: state.KindText, Color: "#000"},
		nil,
	}
	img := Repaint(shapes, 16, 16)
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			t.Fatal("degenerate shapes painted pixels")
		}
	}
}

func TestSurfaceResizeClearsAndRepaintRestores(t *testing.T) {
	shapes := state.ShapeList{shape(state.KindRectangle, geom.Pt(10, 10), geom.Pt(50, 40))}
	s := NewSurface(64, 64)
	s.Repaint(shapes)
	s.Resize(80, 80)
	img := s.Image().(*image.RGBA)
	if alphaAt(img, 30, 10) != 0 {
		t.Fatal("resize kept old pixels")
	}
	s.Repaint(shapes)
	if !bytes.Equal(s.Image().(*image.RGBA).Pix, Repaint(shapes, 80, 80).Pix) {
		t.Fatal("surface repaint differs from Repaint")
	}
}

func TestSurfaceDrawSegment(t *testing.T) {
	s := NewSurface(64, 64)
	pen := shape(state.KindPen, geom.Pt(10, 10))
	s.DrawSegment(pen, geom.Pt(10, 10), geom.Pt(50, 10))
	if alphaAt(s.Image().(*image.RGBA), 30, 10) == 0 {
		t.Fatal("segment not drawn")
	}
	eraser := shape(state.KindEraser, geom.Pt(20, 10))
	s.DrawSegment(eraser, geom.Pt(20, 10), geom.Pt(40, 10))
	if alphaAt(s.Image().(*image.RGBA), 30, 10) != 0 {
		t.Fatal("eraser segment did not clear")
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#ff0000": {R: 0xff, A: 0xff},
		"#fff":    {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
	for in, want := range cases {
		c, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		if got := color.NRGBAModel.Convert(c).(color.NRGBA); got != want {
			t.Errorf("ParseColor(%q) = %v, want %v", in, got, want)
		}
	}
	if c, err := ParseColor("black"); err != nil || Hex(c) != "#000000" {
		t.Errorf("ParseColor(black) = %v, %v", c, err)
	}
	if _, err := ParseColor("nope"); err == nil {
		t.Error("ParseColor accepted garbage")
	}
}

func TestParseFont(t *testing.T) {
	f := ParseFont("bold 20px monospace")
	if f.Size != 20 || f.Family != "monospace" || !f.Bold {
		t.Fatalf("ParseFont = %+v", f)
	}
	if d := ParseFont(""); d.Size != 16 || d.Family != "sans-serif" {
		t.Fatalf("default = %+v", d)
	}
	if f.String() != "bold 20px monospace" {
		t.Fatalf("String = %q", f.String())
	}
}

func TestMeasureTextGrowsWithContent(t *testing.T) {
	var m Measurer
	short := m.MeasureText("hi", state.DefaultFont)
	long := m.MeasureText("hello there", state.DefaultFont)
	if short <= 0 || long <= short {
		t.Fatalf("widths %v, %v", short, long)
	}
}
