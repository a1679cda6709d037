package flappy

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/physics"
)

// Pair is one obstacle: two solid segments with a fixed gap between them and
// a score trigger trailing them.
type Pair struct {
	ID       int
	X        float64 // Horizontal center of both segments
	Y        float64 // Sampled offset: center of the lower segment
	Traveled float64 // Distance scrolled since spawn

	Lower   physics.BodyID
	Upper   physics.BodyID
	Trigger physics.BodyID
}

// LowerTop returns the top edge of the lower segment.
func (p Pair) LowerTop(cfg config.FlappyConfig) float64 {
	return p.Y + cfg.Obstacles.SegmentHeight/2
}

// UpperCenter returns the vertical center of the upper segment.
func (p Pair) UpperCenter(cfg config.FlappyConfig) float64 {
	return p.Y + cfg.Obstacles.SegmentHeight + cfg.Obstacles.VerticalGap
}

// UpperBottom returns the bottom edge of the upper segment.
func (p Pair) UpperBottom(cfg config.FlappyConfig) float64 {
	return p.UpperCenter(cfg) - cfg.Obstacles.SegmentHeight/2
}

// TriggerX returns the horizontal center of the score trigger.
func (p Pair) TriggerX(cfg config.FlappyConfig) float64 {
	return p.X + cfg.Obstacles.Width + cfg.Actor.Radius
}

// PipeManager spawns obstacle pairs, scrolls them left at constant speed and
// removes them once they have left the world. Pairs are kept in spawn order.
type PipeManager struct {
	pairs  []Pair
	rng    *rand.Rand
	world  *physics.World
	cfg    *config.FlappyConfig
	nextID int
}

// NewPipeManager creates a pipe manager that registers its bodies in world.
func NewPipeManager(seed int64, world *physics.World, cfg *config.FlappyConfig) *PipeManager {
	pm := &PipeManager{
		pairs: make([]Pair, 0, 8),
		world: world,
		cfg:   cfg,
	}
	pm.Reset(seed)
	return pm
}

// Reset removes every pair and reseeds the RNG.
func (pm *PipeManager) Reset(seed int64) {
	pm.Clear()
	pm.rng = rand.New(rand.NewSource(seed))
	pm.nextID = 0
}

// Clear removes every pair and its bodies.
func (pm *PipeManager) Clear() {
	for _, p := range pm.pairs {
		pm.removeBodies(p)
	}
	pm.pairs = pm.pairs[:0]
}

// SpawnX returns where new pairs appear: one obstacle width past the right
// edge, fully out of view.
func (pm *PipeManager) SpawnX() float64 {
	return pm.cfg.World.Width + pm.cfg.Obstacles.Width
}

// sampleOffset draws the pair's vertical offset uniformly from
// [quarterHeight, 2*quarterHeight).
func (pm *PipeManager) sampleOffset() float64 {
	q := pm.cfg.QuarterHeight()
	return q + pm.rng.Float64()*q
}

// Spawn creates a new pair at the spawn position and returns it.
func (pm *PipeManager) Spawn() Pair {
	cfg := *pm.cfg
	pm.nextID++
	p := Pair{
		ID: pm.nextID,
		X:  pm.SpawnX(),
		Y:  pm.sampleOffset(),
	}

	segment := physics.Rect(cfg.Obstacles.Width, cfg.Obstacles.SegmentHeight)

	lower := physics.NewStaticBody(mgl64.Vec2{p.X, p.Y}, segment, physics.CategoryObstacle)
	lower.ContactMask = physics.CategoryActor
	p.Lower = pm.world.Add(lower)

	upper := physics.NewStaticBody(mgl64.Vec2{p.X, p.UpperCenter(cfg)}, segment, physics.CategoryObstacle)
	upper.ContactMask = physics.CategoryActor
	p.Upper = pm.world.Add(upper)

	zone := physics.Rect(cfg.Obstacles.Width, cfg.World.Height)
	trigger := physics.NewStaticBody(mgl64.Vec2{p.TriggerX(cfg), cfg.World.Height / 2}, zone, physics.CategoryScoreTrigger)
	trigger.ContactMask = physics.CategoryActor
	p.Trigger = pm.world.Add(trigger)

	pm.pairs = append(pm.pairs, p)
	return p
}

// Scroll moves every pair left by dx and keeps their bodies in step.
func (pm *PipeManager) Scroll(dx float64) {
	for i := range pm.pairs {
		p := &pm.pairs[i]
		p.X -= dx
		p.Traveled += dx
		pm.place(*p)
	}
}

// Despawn removes pairs that have scrolled the full travel distance and
// returns them.
func (pm *PipeManager) Despawn() []Pair {
	distance := pm.cfg.TravelDistance()

	var removed []Pair
	remaining := pm.pairs[:0]
	for _, p := range pm.pairs {
		if p.Traveled >= distance {
			pm.removeBodies(p)
			removed = append(removed, p)
			continue
		}
		remaining = append(remaining, p)
	}
	pm.pairs = remaining
	return removed
}

// Pairs returns the active pairs in spawn order.
func (pm *PipeManager) Pairs() []Pair {
	return pm.pairs
}

// Count returns the number of active pairs.
func (pm *PipeManager) Count() int {
	return len(pm.pairs)
}

// place syncs a pair's bodies with its horizontal position.
func (pm *PipeManager) place(p Pair) {
	if b, ok := pm.world.Body(p.Lower); ok {
		b.Position[0] = p.X
	}
	if b, ok := pm.world.Body(p.Upper); ok {
		b.Position[0] = p.X
	}
	if b, ok := pm.world.Body(p.Trigger); ok {
		b.Position[0] = p.TriggerX(*pm.cfg)
	}
}

func (pm *PipeManager) removeBodies(p Pair) {
	pm.world.Remove(p.Lower)
	pm.world.Remove(p.Upper)
	pm.world.Remove(p.Trigger)
}
