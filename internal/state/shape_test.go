package state

import (
	"testing"

	"pgregory.net/rapid"

	"Whiteboard/internal/geom"
)

var testStyle = Style{
	Color:        "#ff0000",
	PenThickness: 3,
	EraserSize:   40,
	LineStyle:    LineDashed,
}

func TestNewShapeDefaults(t *testing.T) {
	pen := NewShape(KindPen, geom.Pt(1, 2), testStyle)
	if pen.Thickness != 3 || pen.Color != "#ff0000" || len(pen.Points) != 1 {
		t.Errorf("pen = %+v", pen)
	}
	if pen.ID == "" {
		t.Error("pen has no id")
	}

	eraser := NewShape(KindEraser, geom.Pt(1, 2), testStyle)
	if eraser.Color != EraserColor || eraser.Thickness != 40 {
		t.Errorf("eraser = %+v", eraser)
	}

	line := NewShape(KindLine, geom.Pt(0, 0), testStyle)
	if line.LineStyle != LineDashed || line.Thickness != ShapeThickness {
		t.Errorf("line = %+v", line)
	}

	rect := NewShape(KindRectangle, geom.Pt(0, 0), testStyle)
	if rect.LineStyle != "" || rect.Points != nil {
		t.Errorf("rectangle = %+v", rect)
	}
}

func TestNewShapeUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewShape did not panic on an unknown kind")
		}
	}()
	NewShape(Kind("hexagon"), geom.Pt(0, 0), testStyle)
}

func TestExtend(t *testing.T) {
	pen := NewShape(KindPen, geom.Pt(0, 0), testStyle)
	pen.Extend(geom.Pt(5, 5))
	pen.Extend(geom.Pt(10, 10))
	if len(pen.Points) != 3 || pen.Points[2] != geom.Pt(10, 10) {
		t.Fatalf("points = %v", pen.Points)
	}
	if end, ok := pen.End(); !ok || end != geom.Pt(10, 10) {
		t.Fatalf("end = %v, %v", end, ok)
	}

	task := NewShape(KindTask, geom.Pt(10, 20), testStyle)
	task.Extend(geom.Pt(4, 50))
	if *task.Width != -6 || *task.Height != 30 {
		t.Fatalf("task size = %v x %v", *task.Width, *task.Height)
	}

	ev := NewShape(KindEndEvent, geom.Pt(0, 0), testStyle)
	ev.Extend(geom.Pt(3, 4))
	if *ev.Radius != 5 {
		t.Fatalf("radius = %v", *ev.Radius)
	}
}

func TestNormalizeInvertedRectangle(t *testing.T) {
	r := NewShape(KindRectangle, geom.Pt(50, 40), testStyle)
	r.Extend(geom.Pt(10, 10))
	if !r.Contains(geom.Pt(30, 25)) {
		t.Error("inverted rectangle not hit before normalisation")
	}
	r.Normalize()
	end, _ := r.End()
	if r.StartX != 10 || r.StartY != 10 || end != geom.Pt(50, 40) {
		t.Fatalf("normalised = (%v,%v)-(%v)", r.StartX, r.StartY, end)
	}
	if *r.Width != 40 || *r.Height != 30 {
		t.Fatalf("size = %v x %v", *r.Width, *r.Height)
	}
}

func TestContainsPerKind(t *testing.T) {
	rect := NewShape(KindRectangle, geom.Pt(10, 10), testStyle)
	rect.Extend(geom.Pt(50, 40))
	circle := NewShape(KindCircle, geom.Pt(100, 100), testStyle)
	circle.Extend(geom.Pt(110, 100))
	line := NewShape(KindLine, geom.Pt(0, 200), testStyle)
	line.Extend(geom.Pt(100, 200))
	pen := NewShape(KindPen, geom.Pt(0, 0), testStyle)
	pen.Extend(geom.Pt(10, 10))

	cases := []struct {
		name string
		s    *Shape
		p    geom.Point
		want bool
	}{
		{"rect inside", rect, geom.Pt(20, 20), true},
		{"rect outside", rect, geom.Pt(60, 20), false},
		{"circle center", circle, geom.Pt(100, 100), true},
		{"circle outside", circle, geom.Pt(115, 100), false},
		{"line on", line, geom.Pt(40, 200), true},
		{"line off", line, geom.Pt(40, 203), false},
		{"pen never", pen, geom.Pt(5, 5), false},
	}
	for _, c := range cases {
		if got := c.s.Contains(c.p); got != c.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", c.name, c.p, got, c.want)
		}
	}
}

func TestHitTestTopmostFirst(t *testing.T) {
	a := NewShape(KindRectangle, geom.Pt(0, 0), testStyle)
	a.Extend(geom.Pt(100, 100))
	b := NewShape(KindRectangle, geom.Pt(50, 50), testStyle)
	b.Extend(geom.Pt(150, 150))
	l := ShapeList{a, b}

	if i, s := l.HitTest(geom.Pt(75, 75)); i != 1 || s != b {
		t.Fatalf("HitTest overlap = %d", i)
	}
	if i, s := l.HitTest(geom.Pt(10, 10)); i != 0 || s != a {
		t.Fatalf("HitTest lower = %d", i)
	}
	if i, s := l.HitTest(geom.Pt(500, 500)); i != -1 || s != nil {
		t.Fatalf("HitTest miss = %d", i)
	}
}

func genShape(t *rapid.T) *Shape {
	kind := rapid.SampledFrom([]Kind{KindPen, KindRectangle, KindLine, KindCircle, KindTask}).Draw(t, "kind")
	coord := rapid.IntRange(-500, 500)
	s := NewShape(kind, geom.Pt(float64(coord.Draw(t, "x")), float64(coord.Draw(t, "y"))), testStyle)
	n := rapid.IntRange(1, 6).Draw(t, "n")
	for i := 0; i < n; i++ {
		s.Extend(geom.Pt(float64(coord.Draw(t, "px")), float64(coord.Draw(t, "py"))))
	}
	return s
}

// Property: move is additive over every position-bearing field.
func TestMoveIsAdditive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genShape(t)
		delta := rapid.IntRange(-1000, 1000)
		dx1, dy1 := float64(delta.Draw(t, "dx1")), float64(delta.Draw(t, "dy1"))
		dx2, dy2 := float64(delta.Draw(t, "dx2")), float64(delta.Draw(t, "dy2"))

		twice := s.Clone()
		twice.Move(dx1, dy1)
		twice.Move(dx2, dy2)
		once := s.Clone()
		once.Move(dx1+dx2, dy1+dy2)

		if twice.StartX != once.StartX || twice.StartY != once.StartY {
			t.Fatalf("anchor %v,%v != %v,%v", twice.StartX, twice.StartY, once.StartX, once.StartY)
		}
		e1, _ := twice.End()
		e2, _ := once.End()
		if e1 != e2 {
			t.Fatalf("end %v != %v", e1, e2)
		}
		for i := range once.Points {
			if twice.Points[i] != once.Points[i] {
				t.Fatalf("point %d: %v != %v", i, twice.Points[i], once.Points[i])
			}
		}
	})
}

func TestMoveLeavesAbsentFieldsAbsent(t *testing.T) {
	s := NewShape(KindRectangle, geom.Pt(1, 1), testStyle)
	s.Move(5, 5)
	if s.EndX != nil || s.EndY != nil || s.Points != nil {
		t.Fatalf("move created fields: %+v", s)
	}
	if s.StartX != 6 || s.StartY != 6 {
		t.Fatalf("anchor = %v,%v", s.StartX, s.StartY)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewShape(KindPen, geom.Pt(0, 0), testStyle)
	s.Extend(geom.Pt(1, 1))
	c := s.Clone()
	s.Move(10, 10)
	if c.Points[0] != geom.Pt(0, 0) || *c.EndX != 1 {
		t.Fatalf("clone aliased the original: %+v", c)
	}
}
