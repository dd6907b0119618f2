package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Box is an axis-aligned rectangle given by its two corners. A Box built
// from a shape drawn right-to-left or bottom-to-top is inverted until
// Canon is called.
type Box struct {
	Min Point
	Max Point
}

// BoxOf returns the box spanning the corners a and b exactly as given.
func BoxOf(a, b Point) Box {
	return Box{Min: a, Max: b}
}

// Rect returns the box with origin (x, y) and the signed size (w, h).
func Rect(x, y, w, h float64) Box {
	return Box{Min: Pt(x, y), Max: Pt(x+w, y+h)}
}

func (b Box) r2() r2.Box {
	return r2.Box{Min: b.Min.vec(), Max: b.Max.vec()}
}

// Canon returns b with its corners swapped where needed so that
// Min <= Max on both axes.
func (b Box) Canon() Box {
	c := b.r2().Canon()
	return Box{Min: fromVec(c.Min), Max: fromVec(c.Max)}
}

// Inverted reports whether b needs Canon before it can be hit-tested.
func (b Box) Inverted() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// Width is the signed horizontal extent.
func (b Box) Width() float64 { return b.Max.X - b.Min.X }

// Height is the signed vertical extent.
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// Center returns the midpoint of b.
func (b Box) Center() Point {
	return Pt((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2)
}

// Empty reports whether b encloses no area.
func (b Box) Empty() bool {
	c := b.Canon()
	return c.Width() == 0 || c.Height() == 0
}

// Pad grows a canonical box by d on every side.
func (b Box) Pad(d float64) Box {
	c := b.Canon()
	return Box{Min: c.Min.Add(-d, -d), Max: c.Max.Add(d, d)}
}

// Union returns the smallest box containing both a and b.
func (b Box) Union(o Box) Box {
	x, y := b.Canon(), o.Canon()
	return Box{
		Min: Pt(math.Min(x.Min.X, y.Min.X), math.Min(x.Min.Y, y.Min.Y)),
		Max: Pt(math.Max(x.Max.X, y.Max.X), math.Max(x.Max.Y, y.Max.Y)),
	}
}

// BoundsOf returns the bounding box of points. ok is false for an empty set.
func BoundsOf(points []Point) (b Box, ok bool) {
	if len(points) == 0 {
		return Box{}, false
	}
	b = Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		if p.X < b.Min.X {
			b.Min.X = p.X
		}
		if p.X > b.Max.X {
			b.Max.X = p.X
		}
		if p.Y < b.Min.Y {
			b.Min.Y = p.Y
		}
		if p.Y > b.Max.Y {
			b.Max.Y = p.Y
		}
	}
	return b, true
}
