package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// contactSlop lets shapes that were just pushed apart keep touching despite
// rounding.
const contactSlop = 1e-6

// ShapeKind selects the contact geometry of a body.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

// Shape is the contact geometry of a body, centered on its position.
type Shape struct {
	Kind   ShapeKind
	Radius float64    // ShapeCircle
	Half   mgl64.Vec2 // ShapeRect half width and half height
}

// Circle returns a circle shape.
func Circle(radius float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

// Rect returns an axis-aligned rectangle shape of the given full size.
func Rect(w, h float64) Shape {
	return Shape{Kind: ShapeRect, Half: mgl64.Vec2{w / 2, h / 2}}
}

// HalfExtents returns the half size of the shape's bounding box.
func (s Shape) HalfExtents() mgl64.Vec2 {
	if s.Kind == ShapeCircle {
		return mgl64.Vec2{s.Radius, s.Radius}
	}
	return s.Half
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl64.Vec2
}

// Width returns the horizontal size of the box.
func (a AABB) Width() float64 { return a.Max.X() - a.Min.X() }

// Height returns the vertical size of the box.
func (a AABB) Height() float64 { return a.Max.Y() - a.Min.Y() }

// Overlaps reports whether the boxes overlap or touch.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X() <= b.Max.X()+contactSlop && b.Min.X() <= a.Max.X()+contactSlop &&
		a.Min.Y() <= b.Max.Y()+contactSlop && b.Min.Y() <= a.Max.Y()+contactSlop
}

// closestPoint clamps p into the box.
func (a AABB) closestPoint(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		mgl64.Clamp(p.X(), a.Min.X(), a.Max.X()),
		mgl64.Clamp(p.Y(), a.Min.Y(), a.Max.Y()),
	}
}

// Manifold describes an overlap between two bodies. Normal points from B
// toward A; moving A by Normal*Depth separates them.
type Manifold struct {
	Normal mgl64.Vec2
	Depth  float64
}

// Overlap tests two bodies for overlap. Touching shapes count as overlapping
// with zero depth so a body resting on the ground keeps its contact.
func Overlap(a, b *Body) (Manifold, bool) {
	switch {
	case a.Shape.Kind == ShapeCircle && b.Shape.Kind == ShapeCircle:
		return circleCircle(a, b)
	case a.Shape.Kind == ShapeCircle && b.Shape.Kind == ShapeRect:
		return circleRect(a.Position, a.Shape.Radius, b.Bounds())
	case a.Shape.Kind == ShapeRect && b.Shape.Kind == ShapeCircle:
		m, ok := circleRect(b.Position, b.Shape.Radius, a.Bounds())
		m.Normal = m.Normal.Mul(-1)
		return m, ok
	default:
		return rectRect(a.Bounds(), b.Bounds())
	}
}

func circleCircle(a, b *Body) (Manifold, bool) {
	d := a.Position.Sub(b.Position)
	dist := d.Len()
	sum := a.Shape.Radius + b.Shape.Radius
	if dist > sum+contactSlop {
		return Manifold{}, false
	}
	normal := mgl64.Vec2{0, 1}
	if dist > 0 {
		normal = d.Mul(1 / dist)
	}
	return Manifold{Normal: normal, Depth: sum - dist}, true
}

func circleRect(center mgl64.Vec2, radius float64, box AABB) (Manifold, bool) {
	closest := box.closestPoint(center)
	d := center.Sub(closest)
	dist := d.Len()
	if dist > radius+contactSlop {
		return Manifold{}, false
	}
	if dist > 0 {
		return Manifold{Normal: d.Mul(1 / dist), Depth: radius - dist}, true
	}

	// Center inside the box: leave through the nearest face.
	faces := [4]struct {
		normal mgl64.Vec2
		depth  float64
	}{
		{mgl64.Vec2{0, 1}, box.Max.Y() - center.Y()},
		{mgl64.Vec2{0, -1}, center.Y() - box.Min.Y()},
		{mgl64.Vec2{1, 0}, box.Max.X() - center.X()},
		{mgl64.Vec2{-1, 0}, center.X() - box.Min.X()},
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.depth < best.depth {
			best = f
		}
	}
	return Manifold{Normal: best.normal, Depth: best.depth + radius}, true
}

func rectRect(a, b AABB) (Manifold, bool) {
	if !a.Overlaps(b) {
		return Manifold{}, false
	}
	overlapX := math.Min(a.Max.X(), b.Max.X()) - math.Max(a.Min.X(), b.Min.X())
	overlapY := math.Min(a.Max.Y(), b.Max.Y()) - math.Max(a.Min.Y(), b.Min.Y())

	ca := a.Min.Add(a.Max).Mul(0.5)
	cb := b.Min.Add(b.Max).Mul(0.5)
	if overlapX < overlapY {
		n := mgl64.Vec2{1, 0}
		if ca.X() < cb.X() {
			n = mgl64.Vec2{-1, 0}
		}
		return Manifold{Normal: n, Depth: overlapX}, true
	}
	n := mgl64.Vec2{0, 1}
	if ca.Y() < cb.Y() {
		n = mgl64.Vec2{0, -1}
	}
	return Manifold{Normal: n, Depth: overlapY}, true
}
