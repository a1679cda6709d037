package flappy

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/physics"
)

// actorCollisionMask is what stops the actor while it is alive.
const actorCollisionMask = physics.CategoryWorld | physics.CategoryObstacle

// newActor creates the actor body at its start position.
func newActor(cfg config.FlappyConfig) *physics.Body {
	x, y := cfg.ActorStart()
	b := physics.NewDynamicBody(mgl64.Vec2{x, y}, physics.Circle(cfg.Actor.Radius), physics.CategoryActor)
	b.LockX = true
	b.CollisionMask = actorCollisionMask
	b.ContactMask = physics.CategoryWorld | physics.CategoryObstacle
	return b
}

// resetActor puts the actor back where it started, alive and level.
func resetActor(b *physics.Body, cfg config.FlappyConfig) {
	x, y := cfg.ActorStart()
	b.Position = mgl64.Vec2{x, y}
	b.Stop()
	b.Rotation = 0
	b.Speed = 1
	b.CollisionMask = actorCollisionMask
}

// newGround creates the static ground body spanning the world's width.
func newGround(cfg config.FlappyConfig) *physics.Body {
	w, h := cfg.World.Width, cfg.World.GroundHeight
	return physics.NewStaticBody(mgl64.Vec2{w / 2, h / 2}, physics.Rect(w, h), physics.CategoryWorld)
}

// Tilt maps vertical velocity to the actor's visual angle. Falling uses the
// steeper descend scale; the result is clamped to [Min, Max].
func Tilt(vy float64, cfg config.TiltConfig) float64 {
	scale := cfg.AscendScale
	if vy < 0 {
		scale = cfg.DescendScale
	}
	return core.ClampF(vy*scale, cfg.Min, cfg.Max)
}
