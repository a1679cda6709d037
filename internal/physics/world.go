package physics

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Contact is a begin-contact event between two bodies. A is always the body
// that was added to the world first.
type Contact struct {
	A, B *Body
}

// Other returns the body of the pair that is not id.
func (c Contact) Other(id BodyID) *Body {
	if c.A.ID == id {
		return c.B
	}
	return c.A
}

// Involves reports whether id is one of the contact's bodies.
func (c Contact) Involves(id BodyID) bool {
	return c.A.ID == id || c.B.ID == id
}

type pairKey struct {
	a, b BodyID
}

func makePairKey(a, b BodyID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// World is an ordered registry of bodies. Iteration follows insertion order,
// which makes contact reporting deterministic.
type World struct {
	Gravity float64

	bodies   *orderedmap.OrderedMap[BodyID, *Body]
	nextID   BodyID
	touching map[pairKey]struct{}
}

// NewWorld creates an empty world with the given vertical gravity.
func NewWorld(gravity float64) *World {
	return &World{
		Gravity:  gravity,
		bodies:   orderedmap.NewOrderedMap[BodyID, *Body](),
		touching: make(map[pairKey]struct{}),
	}
}

// Add registers a body and assigns it a fresh ID.
func (w *World) Add(b *Body) BodyID {
	w.nextID++
	b.ID = w.nextID
	w.bodies.Set(b.ID, b)
	return b.ID
}

// Remove unregisters a body. Unknown IDs are ignored.
func (w *World) Remove(id BodyID) {
	if !w.bodies.Delete(id) {
		return
	}
	for k := range w.touching {
		if k.a == id || k.b == id {
			delete(w.touching, k)
		}
	}
}

// Body looks up a registered body.
func (w *World) Body(id BodyID) (*Body, bool) {
	return w.bodies.Get(id)
}

// Len returns the number of registered bodies.
func (w *World) Len() int {
	return w.bodies.Len()
}

// Bodies returns the registered bodies in insertion order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, 0, w.bodies.Len())
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Forget drops contact memory for a pair so the next overlap reports again.
func (w *World) Forget(a, b BodyID) {
	delete(w.touching, makePairKey(a, b))
}

// Step advances the world by dt seconds: integrates dynamic bodies, pushes
// them out of static bodies in their collision mask, and returns contacts
// that began this tick. Pairs that keep overlapping are not reported again
// until they separate.
func (w *World) Step(dt float64) []Contact {
	bodies := w.Bodies()

	for _, b := range bodies {
		b.Integrate(dt, w.Gravity)
	}

	for _, b := range bodies {
		if !b.Dynamic {
			continue
		}
		for _, s := range bodies {
			if s.Dynamic || !b.collidesWith(s) {
				continue
			}
			resolve(b, s)
		}
	}

	return w.detect(bodies)
}

// detect collects begin-contacts and refreshes the touching set.
func (w *World) detect(bodies []*Body) []Contact {
	var began []Contact
	current := make(map[pairKey]struct{}, len(w.touching))

	for i, a := range bodies {
		for _, b := range bodies[i+1:] {
			if !a.contactsWith(b) {
				continue
			}
			if _, ok := Overlap(a, b); !ok {
				continue
			}
			key := makePairKey(a.ID, b.ID)
			current[key] = struct{}{}
			if _, was := w.touching[key]; !was {
				began = append(began, Contact{A: a, B: b})
			}
		}
	}

	w.touching = current
	return began
}

// resolve moves dynamic body b out of static body s and removes the velocity
// component pointing into s. A LockX body only takes the vertical part of the
// push, so it may stay partly inside a corner or side face.
func resolve(b, s *Body) {
	m, ok := Overlap(b, s)
	if !ok || m.Depth <= 0 {
		return
	}
	x := b.Position.X()
	b.Position = b.Position.Add(m.Normal.Mul(m.Depth))
	if into := b.Velocity.Dot(m.Normal); into < 0 {
		b.Velocity = b.Velocity.Sub(m.Normal.Mul(into))
	}
	if b.LockX {
		b.Position[0] = x
		b.Velocity[0] = 0
	}
}
