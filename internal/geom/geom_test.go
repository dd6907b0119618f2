package geom

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestPointInCircleCenterAndOutside(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cx := rapid.Float64Range(-1000, 1000).Draw(t, "cx")
		cy := rapid.Float64Range(-1000, 1000).Draw(t, "cy")
		r := rapid.Float64Range(0.5, 500).Draw(t, "r")
		angle := rapid.Float64Range(0, 2*math.Pi).Draw(t, "angle")

		c := Pt(cx, cy)
		if !PointInCircle(c, c, r) {
			t.Fatalf("center %v rejected for radius %v", c, r)
		}
		far := Pt(cx+1.5*r*math.Cos(angle), cy+1.5*r*math.Sin(angle))
		if PointInCircle(far, c, r) {
			t.Fatalf("point %v at 1.5r accepted for radius %v", far, r)
		}
	})
}

func TestPointInBoxInclusive(t *testing.T) {
	b := BoxOf(Pt(10, 10), Pt(50, 40))
	for _, p := range []Point{Pt(10, 10), Pt(50, 40), Pt(30, 25), Pt(10, 40)} {
		if !PointInBox(p, b) {
			t.Errorf("PointInBox(%v) = false, want true", p)
		}
	}
	for _, p := range []Point{Pt(9.9, 10), Pt(51, 20), Pt(30, 41)} {
		if PointInBox(p, b) {
			t.Errorf("PointInBox(%v) = true, want false", p)
		}
	}
}

func TestInvertedBoxNeverMatchesUntilCanon(t *testing.T) {
	b := BoxOf(Pt(50, 40), Pt(10, 10))
	if !b.Inverted() {
		t.Fatal("expected inverted box")
	}
	if PointInBox(Pt(30, 25), b) {
		t.Error("inverted box matched an inner point")
	}
	c := b.Canon()
	if c.Min != Pt(10, 10) || c.Max != Pt(50, 40) {
		t.Fatalf("Canon = %+v", c)
	}
	if !PointInBox(Pt(30, 25), c) {
		t.Error("canonical box rejected an inner point")
	}
}

func TestPointNearSegment(t *testing.T) {
	a, b := Pt(0, 0), Pt(100, 0)
	if !PointNearSegment(Pt(50, 0), a, b, SegmentTolerance) {
		t.Error("point on the segment rejected")
	}
	if PointNearSegment(Pt(50, 5), a, b, SegmentTolerance) {
		t.Error("point 5px off the segment accepted")
	}
	if PointNearSegment(Pt(120, 0), a, b, SegmentTolerance) {
		t.Error("point past the end accepted")
	}
}

func TestArrowHeadIsSymmetric(t *testing.T) {
	from, to := Pt(0, 0), Pt(100, 0)
	left, right := ArrowHead(from, to, ArrowHeadLength)

	if d := Distance(to, left); math.Abs(d-ArrowHeadLength) > 1e-9 {
		t.Errorf("left edge length = %v", d)
	}
	if d := Distance(to, right); math.Abs(d-ArrowHeadLength) > 1e-9 {
		t.Errorf("right edge length = %v", d)
	}
	if math.Abs(left.Y+right.Y) > 1e-9 {
		t.Errorf("head not mirrored about the shaft: %v %v", left, right)
	}
	wantX := 100 - ArrowHeadLength*math.Cos(math.Pi/6)
	if math.Abs(left.X-wantX) > 1e-9 || math.Abs(right.X-wantX) > 1e-9 {
		t.Errorf("head x = %v, %v, want %v", left.X, right.X, wantX)
	}
}

func TestRoundedRectPathClampsRadius(t *testing.T) {
	p := RoundedRectPath(Rect(0, 0, 40, 10), 10)
	if p[0].Op != MoveTo || p[0].To != Pt(5, 0) {
		t.Fatalf("first segment = %+v", p[0])
	}
	for _, s := range p {
		if s.Op == ArcTo && s.Radius != 5 {
			t.Fatalf("arc radius = %v, want 5", s.Radius)
		}
	}
	if p[len(p)-1].Op != Close {
		t.Fatal("path not closed")
	}
}

func TestRoundedRectPathNormalisesInvertedBox(t *testing.T) {
	a := RoundedRectPath(Rect(100, 100, -60, -40), 10)
	b := RoundedRectPath(Rect(40, 60, 60, 40), 10)
	if len(a) != len(b) {
		t.Fatalf("len %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("segment %d: %+v != %+v", i, a[i], b[i])
		}
	}
}

func TestDiamondVertices(t *testing.T) {
	d := Diamond(Rect(0, 0, 20, 10))
	want := [4]Point{Pt(10, 0), Pt(20, 5), Pt(10, 10), Pt(0, 5)}
	if d != want {
		t.Fatalf("Diamond = %v, want %v", d, want)
	}
}

func TestBoundsAndUnion(t *testing.T) {
	if _, ok := BoundsOf(nil); ok {
		t.Fatal("BoundsOf(nil) reported ok")
	}
	b, ok := BoundsOf([]Point{Pt(5, 9), Pt(-1, 3), Pt(4, 12)})
	if !ok || b.Min != Pt(-1, 3) || b.Max != Pt(5, 12) {
		t.Fatalf("BoundsOf = %+v, %v", b, ok)
	}
	u := b.Union(BoxOf(Pt(20, 0), Pt(10, 1)))
	if u.Min != Pt(-1, 0) || u.Max != Pt(20, 12) {
		t.Fatalf("Union = %+v", u)
	}
}

func TestFlattenRoundedRectStaysInBox(t *testing.T) {
	b := BoxOf(Pt(0, 0), Pt(100, 50))
	pts := RoundedRectPath(b, 10).Flatten(8)
	if len(pts) != 1+4+4*9 {
		t.Fatalf("got %d vertices", len(pts))
	}
	for _, p := range pts {
		if !PointInBox(p, b.Pad(1e-9)) {
			t.Fatalf("vertex %v outside %v", p, b)
		}
	}
	if pts[0] != Pt(10, 0) {
		t.Fatalf("first vertex = %v", pts[0])
	}
}
