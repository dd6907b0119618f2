package geom

import "math"

const (
	// ArrowHeadLength is the length of each arrowhead edge.
	ArrowHeadLength = 10
	// ArrowHeadAngle is the angle between the shaft and each head edge.
	ArrowHeadAngle = math.Pi / 6
)

// ArrowHead returns the two outer points of the head of an arrow pointing
// from -> to. The head edges sit at ±ArrowHeadAngle from the reversed shaft.
func ArrowHead(from, to Point, length float64) (left, right Point) {
	angle := Angle(from, to)
	left = Pt(
		to.X-length*math.Cos(angle-ArrowHeadAngle),
		to.Y-length*math.Sin(angle-ArrowHeadAngle),
	)
	right = Pt(
		to.X-length*math.Cos(angle+ArrowHeadAngle),
		to.Y-length*math.Sin(angle+ArrowHeadAngle),
	)
	return left, right
}

// Op is a path construction verb.
type Op int

const (
	MoveTo Op = iota
	LineTo
	// ArcTo appends a circular arc around Center with Radius, running
	// clockwise (in screen coordinates) from Start to End radians.
	ArcTo
	Close
)

// Segment is one step of a path.
type Segment struct {
	Op     Op
	To     Point
	Center Point
	Radius float64
	Start  float64
	End    float64
}

// Path is an ordered list of segments, replayed by the renderer and the
// exporters.
type Path []Segment

// RoundedRectPath returns the outline of b with circular corners of radius r.
// b is canonicalised first and r is clamped to half of the shorter side.
func RoundedRectPath(b Box, r float64) Path {
	c := b.Canon()
	x, y, w, h := c.Min.X, c.Min.Y, c.Width(), c.Height()
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))

	return Path{
		{Op: MoveTo, To: Pt(x+r, y)},
		{Op: LineTo, To: Pt(x+w-r, y)},
		{Op: ArcTo, Center: Pt(x+w-r, y+r), Radius: r, Start: -math.Pi / 2, End: 0},
		{Op: LineTo, To: Pt(x+w, y+h-r)},
		{Op: ArcTo, Center: Pt(x+w-r, y+h-r), Radius: r, Start: 0, End: math.Pi / 2},
		{Op: LineTo, To: Pt(x+r, y+h)},
		{Op: ArcTo, Center: Pt(x+r, y+h-r), Radius: r, Start: math.Pi / 2, End: math.Pi},
		{Op: LineTo, To: Pt(x, y+r)},
		{Op: ArcTo, Center: Pt(x+r, y+r), Radius: r, Start: math.Pi, End: 3 * math.Pi / 2},
		{Op: Close},
	}
}

// Diamond returns the four vertices of the rhombus inscribed in b,
// starting at the top and running clockwise.
func Diamond(b Box) [4]Point {
	x, y, w, h := b.Min.X, b.Min.Y, b.Width(), b.Height()
	return [4]Point{
		Pt(x+w/2, y),
		Pt(x+w, y+h/2),
		Pt(x+w/2, y+h),
		Pt(x, y+h/2),
	}
}

// Polygon returns a closed path through pts.
func Polygon(pts ...Point) Path {
	if len(pts) == 0 {
		return nil
	}
	p := make(Path, 0, len(pts)+1)
	p = append(p, Segment{Op: MoveTo, To: pts[0]})
	for _, q := range pts[1:] {
		p = append(p, Segment{Op: LineTo, To: q})
	}
	return append(p, Segment{Op: Close})
}

// Flatten returns the vertices of p with every arc approximated by steps
// straight segments. Close does not repeat the first vertex.
func (p Path) Flatten(steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	var pts []Point
	for _, seg := range p {
		switch seg.Op {
		case MoveTo, LineTo:
			pts = append(pts, seg.To)
		case ArcTo:
			for i := 0; i <= steps; i++ {
				a := seg.Start + (seg.End-seg.Start)*float64(i)/float64(steps)
				pts = append(pts, Pt(
					seg.Center.X+seg.Radius*math.Cos(a),
					seg.Center.Y+seg.Radius*math.Sin(a),
				))
			}
		}
	}
	return pts
}
