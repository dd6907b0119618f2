// Package geom holds the pure geometry used by the board: distances,
// point-in-shape predicates and the path construction for arrows, rounded
// rectangles and diamonds.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position on the board in surface pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func fromVec(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return fromVec(r2.Add(p.vec(), r2.Vec{X: dx, Y: dy}))
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return fromVec(r2.Sub(p.vec(), q.vec()))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(a.vec(), b.vec()))
}

// DistanceSq returns the squared distance between a and b.
func DistanceSq(a, b Point) float64 {
	return r2.Norm2(r2.Sub(a.vec(), b.vec()))
}

// Angle returns the direction of the segment a->b in radians.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}
