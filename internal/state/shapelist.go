package state

import "Whiteboard/internal/geom"

// ShapeList is the ordered set of shapes on the board. Index order is
// z-order: later shapes are drawn on top and hit-tested first.
type ShapeList []*Shape

// Clone returns a deep copy of l. Nil entries are dropped.
func (l ShapeList) Clone() ShapeList {
	out := make(ShapeList, 0, len(l))
	for _, s := range l {
		if s != nil {
			out = append(out, s.Clone())
		}
	}
	return out
}

// Last returns the most recently added shape, or nil.
func (l ShapeList) Last() *Shape {
	if len(l) == 0 {
		return nil
	}
	return l[len(l)-1]
}

// HitTest returns the topmost shape containing p and its index, or -1 and
// nil when nothing is under p.
func (l ShapeList) HitTest(p geom.Point) (int, *Shape) {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i] != nil && l[i].Contains(p) {
			return i, l[i]
		}
	}
	return -1, nil
}

// Bounds returns the union of the bounds of every shape in l.
func (l ShapeList) Bounds() (geom.Box, bool) {
	var (
		all   geom.Box
		found bool
	)
	for _, s := range l {
		if s == nil {
			continue
		}
		b, ok := s.Bounds()
		if !ok {
			continue
		}
		if !found {
			all, found = b.Canon(), true
			continue
		}
		all = all.Union(b)
	}
	return all, found
}
