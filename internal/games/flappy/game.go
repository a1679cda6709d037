// Package flappy implements the Flappy Bird gameplay core: an actor falling
// under gravity, obstacle pairs scrolling past at constant speed, and a
// session that moves between running, collided and awaiting restart.
package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/physics"
	"github.com/vovakirdan/tui-flappy/internal/timer"
)

// Scheduler keys for the game's timed sequences.
const (
	keySpawn = "spawn"
	keyFlash = "flash"
	keySpin  = "spin"
	keyPulse = "pulse"
)

// Phase is the session state.
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseCollided
	PhaseAwaitingRestart
)

// String returns the phase name reported in core.GameState.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseCollided:
		return "collided"
	case PhaseAwaitingRestart:
		return "awaiting_restart"
	default:
		return "unknown"
	}
}

// Game is one play session. It owns the physics world, the actor, the
// obstacle spawner and every timed sequence. All time is simulation time
// advanced by Step.
type Game struct {
	cfg     config.FlappyConfig
	runtime core.RuntimeConfig
	dt      float64

	world  *physics.World
	actor  *physics.Body
	ground *physics.Body
	pipes  *PipeManager
	sched  *timer.Scheduler

	phase  Phase
	score  int
	moving float64 // Global scroll speed: 1 while running, 0 once collided
	seed   int64
	life   int
	tick   uint64
	cause  Cause

	flashOn      bool
	pulse        float64 // Score label scale
	spinning     bool
	spinFrom     float64
	spinElapsed  float64
	groundScroll float64
	frame        int // Wing animation frame, 0 or 1

	effects []core.Effect
}

// New creates a game using cfg. Call Reset before stepping.
func New(cfg config.FlappyConfig) *Game {
	return &Game{cfg: cfg}
}

// NewDefault creates a game with the built-in world constants.
func NewDefault() *Game {
	return New(config.DefaultFlappyConfig())
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "flappy"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Flappy Bird"
}

// Config returns the world constants the game runs with.
func (g *Game) Config() config.FlappyConfig {
	return g.cfg
}

// Reset builds the scene from scratch and starts the first life.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.runtime = rt
	g.dt = rt.TickSeconds()
	g.seed = rt.Seed
	g.life = 0

	g.world = physics.NewWorld(g.cfg.Physics.Gravity)
	g.ground = newGround(g.cfg)
	g.world.Add(g.ground)
	g.actor = newActor(g.cfg)
	g.world.Add(g.actor)
	g.pipes = NewPipeManager(LifeSeed(g.seed, 0), g.world, &g.cfg)
	g.sched = timer.New()
	g.effects = nil

	g.startLife()
}

// LifeSeed derives the RNG seed for a life. Life 0 uses the session seed
// as is, so a single life is reproducible from the seed alone.
func LifeSeed(seed int64, life int) int64 {
	if life == 0 {
		return seed
	}
	return int64(uint64(seed) + uint64(life)*0x9E3779B97F4A7C15)
}

// LifeSeed returns the seed the current life's obstacles were drawn with.
func (g *Game) LifeSeed() int64 {
	return LifeSeed(g.seed, g.life)
}

// startLife puts the scene into its initial running configuration: no
// obstacles, the actor at its start, and the spawner armed to fire one
// period from now. Any in-flight flash, spin or pulse sequence is canceled.
func (g *Game) startLife() {
	g.sched.CancelAll()
	g.pipes.Reset(g.LifeSeed())
	resetActor(g.actor, g.cfg)
	g.world.Forget(g.actor.ID, g.ground.ID)

	g.phase = PhaseRunning
	g.score = 0
	g.moving = 1
	g.tick = 0
	g.frame = 0
	g.cause = CauseNone
	g.flashOn = false
	g.pulse = 1
	g.spinning = false
	g.spinElapsed = 0
	g.groundScroll = 0

	g.sched.Run(keySpawn, timer.Seq(
		timer.Wait(g.cfg.Obstacles.SpawnPeriod),
		timer.Do(g.spawn),
	).Forever())
}

// Step advances the session by one fixed tick.
//
// Order within a tick: input, obstacle scroll, physics, contact
// classification, despawn, timed sequences, tilt.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.effects = nil

	// A restart resets the tick counter, so input goes first.
	if in.Has(core.ActionPress) {
		g.press()
	}
	g.tick++

	if g.moving > 0 {
		dx := g.cfg.Obstacles.Speed * g.dt * g.moving
		g.pipes.Scroll(dx)
		g.groundScroll += dx
	}

	contacts := g.world.Step(g.dt)
	g.handleContacts(contacts)

	for range g.pipes.Despawn() {
		g.emit(core.EffectDespawn)
	}

	g.sched.Advance(g.dt)
	g.advanceSpin()

	if g.phase == PhaseRunning {
		g.actor.Rotation = Tilt(g.actor.Velocity.Y(), g.cfg.Tilt)
		g.frame = wingFrame(g.tick, g.dt, g.cfg.Feedback.FlapPeriod)
	}

	return core.StepResult{State: g.State(), Effects: g.effects}
}

// press handles the single input the game accepts.
func (g *Game) press() {
	switch g.phase {
	case PhaseRunning:
		if g.actor.Speed > 0 {
			g.actor.ApplyImpulse(g.cfg.Physics.Impulse)
		}
	case PhaseAwaitingRestart:
		g.Restart()
	case PhaseCollided:
		// Ignored until the flash sequence finishes.
	}
}

// Restart starts a new life. It is a no-op unless the session is awaiting
// restart.
func (g *Game) Restart() bool {
	if g.phase != PhaseAwaitingRestart {
		return false
	}
	g.life++
	g.startLife()
	g.emit(core.EffectRestart)
	return true
}

// handleContacts classifies the tick's begin-contacts. Contacts only matter
// while running; the first collision ends evaluation.
func (g *Game) handleContacts(contacts []physics.Contact) {
	for _, c := range contacts {
		if g.phase != PhaseRunning {
			return
		}
		out := Classify(c, g.actor.ID)
		switch out.Kind {
		case ContactScore:
			g.addScore()
		case ContactCollision:
			g.collide(out.Cause)
		}
	}
}

func (g *Game) addScore() {
	g.score++
	g.emit(core.EffectScorePulse)
	g.sched.Run(keyPulse, timer.Seq(
		timer.Do(func() { g.pulse = g.cfg.Feedback.PulseScale }),
		timer.Wait(g.cfg.Feedback.PulseDuration),
		timer.Do(func() { g.pulse = 1 }),
	))
}

// collide moves the session to Collided: scrolling and spawning stop, the
// actor drops through obstacles to the ground while it spins, and the
// background flashes before a restart is allowed.
func (g *Game) collide(cause Cause) {
	g.phase = PhaseCollided
	g.cause = cause
	g.moving = 0
	g.sched.Pause(keySpawn)
	g.actor.CollisionMask = physics.CategoryWorld
	g.emit(core.EffectCollided)

	g.spinning = true
	g.spinFrom = g.actor.Rotation
	g.spinElapsed = 0
	g.sched.Run(keySpin, timer.Seq(
		timer.Wait(g.cfg.Feedback.DeathSpinDuration),
	).Then(g.finishSpin))

	fb := g.cfg.Feedback
	if fb.FlashCount < 1 {
		g.awaitRestart()
		return
	}
	g.sched.Run(keyFlash, timer.Seq(
		timer.Do(func() { g.setFlash(true) }),
		timer.Wait(fb.FlashInterval),
		timer.Do(func() { g.setFlash(false) }),
		timer.Wait(fb.FlashInterval),
	).Repeat(fb.FlashCount).Then(g.awaitRestart))
}

func (g *Game) setFlash(on bool) {
	g.flashOn = on
	if on {
		g.emit(core.EffectFlashOn)
	} else {
		g.emit(core.EffectFlashOff)
	}
}

func (g *Game) awaitRestart() {
	if g.phase != PhaseCollided {
		return
	}
	g.phase = PhaseAwaitingRestart
	g.emit(core.EffectAwaitingRestart)
}

// advanceSpin rotates the actor through the death spin.
func (g *Game) advanceSpin() {
	if !g.spinning {
		return
	}
	g.spinElapsed += g.dt
	t := 1.0
	if d := g.cfg.Feedback.DeathSpinDuration; d > 0 {
		t = core.ClampF(g.spinElapsed/d, 0, 1)
	}
	g.actor.Rotation = core.Lerp(g.spinFrom, g.spinFrom+g.cfg.Feedback.DeathSpinAngle, t)
}

// finishSpin completes the rotation and freezes the actor.
func (g *Game) finishSpin() {
	g.spinning = false
	g.actor.Rotation = g.spinFrom + g.cfg.Feedback.DeathSpinAngle
	g.actor.Speed = 0
	g.actor.Stop()
}

func (g *Game) spawn() {
	g.pipes.Spawn()
	g.emit(core.EffectSpawn)
}

func (g *Game) emit(e core.Effect) {
	g.effects = append(g.effects, e)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:      g.score,
		Phase:      g.phase.String(),
		GameOver:   g.phase != PhaseRunning,
		CanRestart: g.phase == PhaseAwaitingRestart,
		Life:       g.life,
		Tick:       g.tick,
	}
}

// Phase returns the session phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// Cause returns what ended the current life, or CauseNone while running.
func (g *Game) Cause() Cause {
	return g.cause
}

// Moving returns the global scroll speed.
func (g *Game) Moving() float64 {
	return g.moving
}

// Actor returns the actor body. Callers must treat it as read-only.
func (g *Game) Actor() *physics.Body {
	return g.actor
}

// Pairs returns the active obstacle pairs in spawn order.
func (g *Game) Pairs() []Pair {
	return g.pipes.Pairs()
}

// FlashOn reports whether the collision flash is currently showing.
func (g *Game) FlashOn() bool {
	return g.flashOn
}

// Frame returns the actor's wing animation frame.
func (g *Game) Frame() int {
	return g.frame
}

// Pulse returns the score label scale; 1 when not pulsing.
func (g *Game) Pulse() float64 {
	return g.pulse
}
