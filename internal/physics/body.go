// Package physics is a minimal rigid-body layer: bodies with a shape, a
// category and masks, gravity integration for dynamic bodies, and a world
// that reports begin-contacts once per tick.
package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Category is a collision category bitmask.
type Category uint32

// The four disjoint categories of the game world.
const (
	CategoryActor Category = 1 << iota
	CategoryWorld
	CategoryObstacle
	CategoryScoreTrigger

	CategoryNone Category = 0
)

// Has reports whether any bit of other is set in c.
func (c Category) Has(other Category) bool {
	return c&other != 0
}

// String returns the name of a single category.
func (c Category) String() string {
	switch c {
	case CategoryActor:
		return "actor"
	case CategoryWorld:
		return "world"
	case CategoryObstacle:
		return "obstacle"
	case CategoryScoreTrigger:
		return "score_trigger"
	case CategoryNone:
		return "none"
	default:
		return "mixed"
	}
}

// BodyID identifies a body inside a World.
type BodyID uint64

// Body is a point mass with a contact shape.
//
// Static bodies (Dynamic == false) never move under gravity; whoever owns them
// sets Position directly. Speed scales integration: 1 simulates normally,
// 0 freezes the body in place.
type Body struct {
	ID       BodyID
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Rotation float64 // Visual only
	Shape    Shape
	Dynamic  bool
	Speed    float64
	LockX    bool // Horizontal position and velocity never change

	Category      Category
	CollisionMask Category // Categories this body is physically stopped by
	ContactMask   Category // Categories this body reports contacts with
}

// NewDynamicBody creates a body that falls under gravity.
func NewDynamicBody(pos mgl64.Vec2, shape Shape, category Category) *Body {
	return &Body{
		Position: pos,
		Shape:    shape,
		Dynamic:  true,
		Speed:    1,
		Category: category,
	}
}

// NewStaticBody creates a body that only moves when repositioned.
func NewStaticBody(pos mgl64.Vec2, shape Shape, category Category) *Body {
	return &Body{
		Position: pos,
		Shape:    shape,
		Speed:    1,
		Category: category,
	}
}

// ApplyImpulse discards the current vertical velocity and sets it to dy.
// Every flap therefore has the same effect regardless of fall speed.
func (b *Body) ApplyImpulse(dy float64) {
	b.Velocity[1] = 0
	b.Velocity[1] += dy
}

// Integrate applies gravity for dt seconds, then moves the body by its
// velocity. No-op for static or frozen bodies.
func (b *Body) Integrate(dt, gravity float64) {
	if !b.Dynamic || b.Speed == 0 {
		return
	}
	if b.LockX {
		b.Velocity[0] = 0
	}
	step := dt * b.Speed
	b.Velocity[1] += gravity * step
	b.Position = b.Position.Add(b.Velocity.Mul(step))
}

// Stop zeroes the velocity.
func (b *Body) Stop() {
	b.Velocity = mgl64.Vec2{}
}

// Bounds returns the body's axis-aligned bounding box in world space.
func (b *Body) Bounds() AABB {
	half := b.Shape.HalfExtents()
	return AABB{
		Min: b.Position.Sub(half),
		Max: b.Position.Add(half),
	}
}

// collidesWith reports whether other physically blocks b.
func (b *Body) collidesWith(other *Body) bool {
	return b.CollisionMask.Has(other.Category)
}

// contactsWith reports whether an overlap between b and other is an event.
func (b *Body) contactsWith(other *Body) bool {
	return b.ContactMask.Has(other.Category) || other.ContactMask.Has(b.Category)
}
