package geom

import "math"

// SegmentTolerance is the slack, in pixels, accepted by PointNearSegment.
const SegmentTolerance = 0.1

// PointInBox reports whether p lies inside b, bounds included. b must be
// canonical: an inverted box never contains anything.
func PointInBox(p Point, b Box) bool {
	return b.r2().Contains(p.vec())
}

// PointInCircle reports whether p lies inside or on the circle.
func PointInCircle(p, center Point, radius float64) bool {
	return DistanceSq(p, center) <= radius*radius
}

// PointInRing reports whether p lies between the inner and outer radius.
func PointInRing(p, center Point, inner, outer float64) bool {
	d := DistanceSq(p, center)
	return d <= outer*outer && d >= inner*inner
}

// PointNearSegment accepts p when the detour a->p->b is at most tol longer
// than a->b. This is an ellipse test around the segment, not a
// perpendicular distance, so it only accepts points very close to the line.
func PointNearSegment(p, a, b Point, tol float64) bool {
	detour := Distance(p, a) + Distance(p, b)
	return math.Abs(detour-Distance(a, b)) <= tol
}
