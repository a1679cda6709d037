package flappy

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/physics"
)

const eps = 1e-9

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

// hoverConfig removes gravity and widens the gap so the actor flies through
// every pair untouched.
func hoverConfig() config.FlappyConfig {
	cfg := config.DefaultFlappyConfig()
	cfg.Physics.Gravity = 0
	cfg.Obstacles.VerticalGap = 400
	cfg.Actor.YRatio = 0.8
	return cfg
}

func stepUntil(t *testing.T, g *Game, limit int, done func() bool) {
	t.Helper()
	idle := core.NewInputFrame()
	for i := 0; i < limit; i++ {
		if done() {
			return
		}
		g.Step(idle)
	}
	if !done() {
		t.Fatalf("condition not reached within %d ticks", limit)
	}
}

func TestResetInitialState(t *testing.T) {
	g := NewDefault()
	g.Reset(testRuntime(1))

	if g.Phase() != PhaseRunning {
		t.Errorf("expected running, got %s", g.Phase())
	}
	if g.Score() != 0 {
		t.Errorf("expected score 0, got %d", g.Score())
	}
	if len(g.Pairs()) != 0 {
		t.Errorf("expected no pairs before the first spawn period, got %d", len(g.Pairs()))
	}
	pos := g.Actor().Position
	if pos.X() != 140 || pos.Y() != 360 {
		t.Errorf("expected actor at (140, 360), got (%g, %g)", pos.X(), pos.Y())
	}
	if g.Moving() != 1 {
		t.Errorf("expected moving speed 1, got %g", g.Moving())
	}

	state := g.State()
	if state.GameOver || state.CanRestart || state.Phase != "running" {
		t.Errorf("unexpected initial state %+v", state)
	}
}

func TestPressAppliesImpulse(t *testing.T) {
	g := NewDefault()
	g.Reset(testRuntime(1))

	g.Step(core.PressFrame())

	vy := g.Actor().Velocity.Y()
	want := 330.0 - 800.0/60.0
	if math.Abs(vy-want) > eps {
		t.Errorf("expected vy %g after press, got %g", want, vy)
	}
	wantTilt := want * 0.001
	if math.Abs(g.Actor().Rotation-wantTilt) > eps {
		t.Errorf("expected tilt %g, got %g", wantTilt, g.Actor().Rotation)
	}
}

func TestPressReplacesVelocity(t *testing.T) {
	g := NewDefault()
	g.Reset(testRuntime(1))

	idle := core.NewInputFrame()
	for i := 0; i < 30; i++ {
		g.Step(idle)
	}
	if g.Actor().Velocity.Y() >= 0 {
		t.Fatal("expected actor to be falling")
	}

	g.Step(core.PressFrame())
	want := 330.0 - 800.0/60.0
	if math.Abs(g.Actor().Velocity.Y()-want) > eps {
		t.Errorf("press must discard prior velocity: want %g, got %g", want, g.Actor().Velocity.Y())
	}
}

func TestTilt(t *testing.T) {
	cfg := config.DefaultFlappyConfig().Tilt

	tests := []struct {
		vy   float64
		want float64
	}{
		{-300, -0.9},
		{-2000, -1},
		{100, 0.1},
		{800, 0.5},
		{0, 0},
	}

	for _, tt := range tests {
		got := Tilt(tt.vy, cfg)
		if math.Abs(got-tt.want) > eps {
			t.Errorf("Tilt(%g) = %g, want %g", tt.vy, got, tt.want)
		}
	}
}

func TestSpawnCadence(t *testing.T) {
	g := New(hoverConfig())
	g.Reset(testRuntime(3))

	idle := core.NewInputFrame()
	spawnTicks := []uint64{}
	for i := 0; i < 360; i++ {
		res := g.Step(idle)
		if res.Has(core.EffectSpawn) {
			spawnTicks = append(spawnTicks, res.State.Tick)
		}
	}

	expected := []uint64{120, 240, 360}
	if len(spawnTicks) != len(expected) {
		t.Fatalf("expected spawns at %v, got %v", expected, spawnTicks)
	}
	for i := range expected {
		if spawnTicks[i] != expected[i] {
			t.Errorf("spawn %d: expected tick %d, got %d", i, expected[i], spawnTicks[i])
		}
	}

	pairs := g.Pairs()
	for i := 1; i < len(pairs); i++ {
		gap := pairs[i].X - pairs[i-1].X
		if math.Abs(gap-200) > 1e-6 {
			t.Errorf("expected 200 units between pairs, got %g", gap)
		}
	}
}

func TestScoreCollideRestartSequence(t *testing.T) {
	g := New(hoverConfig())
	g.Reset(testRuntime(9))

	var scores []int
	last := -1
	record := func() {
		if s := g.Score(); s != last {
			scores = append(scores, s)
			last = s
		}
	}
	record()

	idle := core.NewInputFrame()
	for i := 0; i < 2000 && g.Score() < 3; i++ {
		g.Step(idle)
		record()
	}
	if g.Score() != 3 {
		t.Fatalf("expected to reach score 3, got %d", g.Score())
	}

	// Let the actor fall to end the life.
	g.world.Gravity = -800
	collisions := 0
	for i := 0; i < 600 && g.Phase() == PhaseRunning; i++ {
		if g.Step(idle).Has(core.EffectCollided) {
			collisions++
		}
		record()
	}
	if g.Phase() != PhaseCollided {
		t.Fatalf("expected collided, got %s", g.Phase())
	}
	if g.Cause() == CauseNone {
		t.Error("expected a collision cause")
	}

	for i := 0; i < 600 && g.Phase() != PhaseAwaitingRestart; i++ {
		if g.Step(idle).Has(core.EffectCollided) {
			collisions++
		}
		record()
	}
	if g.Phase() != PhaseAwaitingRestart {
		t.Fatalf("expected awaiting restart, got %s", g.Phase())
	}
	if collisions != 1 {
		t.Errorf("expected exactly one collision, got %d", collisions)
	}

	g.world.Gravity = 0
	res := g.Step(core.PressFrame())
	if !res.Has(core.EffectRestart) {
		t.Fatal("expected press to restart")
	}
	record()

	for i := 0; i < 2000 && g.Score() < 1; i++ {
		g.Step(idle)
		record()
	}

	expected := []int{0, 1, 2, 3, 0, 1}
	if len(scores) != len(expected) {
		t.Fatalf("expected score sequence %v, got %v", expected, scores)
	}
	for i := range expected {
		if scores[i] != expected[i] {
			t.Errorf("score sequence %v, want %v", scores, expected)
			break
		}
	}
}

func collidedGame(t *testing.T) *Game {
	t.Helper()
	g := NewDefault()
	g.Reset(testRuntime(5))
	stepUntil(t, g, 600, func() bool { return g.Phase() != PhaseRunning })
	return g
}

// collidedWithPair ends a life by falling to the ground after the first pair
// has spawned.
func collidedWithPair(t *testing.T) *Game {
	t.Helper()
	g := New(hoverConfig())
	g.Reset(testRuntime(5))
	stepUntil(t, g, 600, func() bool { return len(g.Pairs()) > 0 })
	g.world.Gravity = -800
	stepUntil(t, g, 600, func() bool { return g.Phase() != PhaseRunning })
	return g
}

func TestGroundCollision(t *testing.T) {
	g := collidedGame(t)

	if g.Cause() != CauseGround {
		t.Errorf("expected ground collision, got %s", g.Cause())
	}
	if g.Moving() != 0 {
		t.Errorf("expected scrolling to stop, got %g", g.Moving())
	}
	state := g.State()
	if !state.GameOver || state.CanRestart {
		t.Errorf("unexpected collided state %+v", state)
	}
}

func TestCollidedFreezesObstacles(t *testing.T) {
	g := collidedWithPair(t)

	before := append([]Pair(nil), g.Pairs()...)
	if len(before) == 0 {
		t.Fatal("expected a pair on screen at the collision")
	}
	idle := core.NewInputFrame()
	for i := 0; i < 400; i++ {
		res := g.Step(idle)
		if res.Has(core.EffectSpawn) {
			t.Fatal("spawner must stay paused after a collision")
		}
	}

	after := g.Pairs()
	if len(after) != len(before) {
		t.Fatalf("expected %d pairs, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i].X != after[i].X {
			t.Errorf("pair %d moved from %g to %g", i, before[i].X, after[i].X)
		}
	}
}

func TestPressIgnoredWhileCollided(t *testing.T) {
	g := collidedGame(t)

	vy := g.Actor().Velocity.Y()
	g.Step(core.PressFrame())
	if g.Phase() != PhaseCollided {
		t.Fatalf("expected press to be ignored, phase %s", g.Phase())
	}
	if g.Actor().Velocity.Y() > vy {
		t.Error("press must not apply an impulse while collided")
	}
	if g.Restart() {
		t.Error("restart must be a no-op while collided")
	}
}

func TestRestartNoOpWhileRunning(t *testing.T) {
	g := NewDefault()
	g.Reset(testRuntime(1))
	g.Step(core.NewInputFrame())

	if g.Restart() {
		t.Error("restart must be a no-op while running")
	}
	if g.State().Life != 0 {
		t.Errorf("expected life 0, got %d", g.State().Life)
	}
}

func TestFlashSequence(t *testing.T) {
	g := NewDefault()
	g.Reset(testRuntime(5))

	idle := core.NewInputFrame()
	var ons, offs int
	for i := 0; i < 600 && g.Phase() != PhaseAwaitingRestart; i++ {
		res := g.Step(idle)
		for _, e := range res.Effects {
			switch e {
			case core.EffectFlashOn:
				ons++
			case core.EffectFlashOff:
				offs++
			}
		}
	}

	if g.Phase() != PhaseAwaitingRestart {
		t.Fatalf("expected awaiting restart, got %s", g.Phase())
	}
	if ons != 4 || offs != 4 {
		t.Errorf("expected 4 flashes on and off, got %d/%d", ons, offs)
	}
	if g.FlashOn() {
		t.Error("flash must end off")
	}
	if !g.State().CanRestart {
		t.Error("expected CanRestart")
	}
}

func TestDeathSpin(t *testing.T) {
	g := collidedGame(t)
	from := g.spinFrom

	idle := core.NewInputFrame()
	for i := 0; i < 70; i++ {
		g.Step(idle)
	}

	if math.Abs(g.Actor().Rotation-(from+math.Pi)) > 1e-6 {
		t.Errorf("expected rotation %g after spin, got %g", from+math.Pi, g.Actor().Rotation)
	}
	if g.Actor().Speed != 0 {
		t.Errorf("expected actor frozen after spin, speed %g", g.Actor().Speed)
	}
}

func TestRestartSupersedesSpin(t *testing.T) {
	g := collidedGame(t)
	stepUntil(t, g, 600, func() bool { return g.Phase() == PhaseAwaitingRestart })
	if !g.spinning {
		t.Fatal("expected the spin to still be running")
	}

	g.Step(core.PressFrame())

	if g.Phase() != PhaseRunning {
		t.Fatalf("expected running after restart, got %s", g.Phase())
	}
	if g.spinning || g.FlashOn() {
		t.Error("restart must cancel the spin and the flash")
	}
	if g.Actor().Speed != 1 {
		t.Errorf("expected actor speed 1, got %g", g.Actor().Speed)
	}
	if g.Score() != 0 || g.Moving() != 1 || g.Cause() != CauseNone {
		t.Errorf("unexpected state after restart: score %d moving %g cause %s", g.Score(), g.Moving(), g.Cause())
	}
	if len(g.Pairs()) != 0 {
		t.Errorf("expected obstacles cleared, got %d pairs", len(g.Pairs()))
	}
	if g.State().Life != 1 {
		t.Errorf("expected life 1, got %d", g.State().Life)
	}

	// The canceled spin must not come back and freeze the new life.
	idle := core.NewInputFrame()
	for i := 0; i < 30; i++ {
		g.Step(idle)
	}
	if g.Actor().Speed != 1 {
		t.Error("canceled spin froze the actor")
	}
	if g.Actor().Rotation > 0 {
		t.Errorf("expected tilt to follow velocity, got %g", g.Actor().Rotation)
	}
}

func TestRestartClearsScene(t *testing.T) {
	g := collidedWithPair(t)
	stepUntil(t, g, 600, func() bool { return g.Phase() == PhaseAwaitingRestart })
	if len(g.Pairs()) == 0 {
		t.Fatal("expected pairs left over from the ended life")
	}

	if !g.Restart() {
		t.Fatal("expected restart to be accepted")
	}

	if g.Phase() != PhaseRunning || g.Score() != 0 || len(g.Pairs()) != 0 {
		t.Errorf("after restart: phase %s score %d pairs %d, want running 0 0",
			g.Phase(), g.Score(), len(g.Pairs()))
	}
	pos := g.Actor().Position
	if pos.X() != 140 || pos.Y() != 480 {
		t.Errorf("expected actor at (140, 480), got (%g, %g)", pos.X(), pos.Y())
	}

	// The spawner resumes and fires one period into the new life.
	g.world.Gravity = 0
	idle := core.NewInputFrame()
	var first uint64
	for i := 0; i < 200 && first == 0; i++ {
		if res := g.Step(idle); res.Has(core.EffectSpawn) {
			first = res.State.Tick
		}
	}
	if first != 120 {
		t.Errorf("expected first spawn of the new life at tick 120, got %d", first)
	}
}

func TestRestartRepositionsActor(t *testing.T) {
	g := collidedGame(t)
	stepUntil(t, g, 600, func() bool { return g.Phase() == PhaseAwaitingRestart })

	g.Restart()

	pos := g.Actor().Position
	if pos.X() != 140 || pos.Y() != 360 {
		t.Errorf("expected actor at (140, 360), got (%g, %g)", pos.X(), pos.Y())
	}
	if g.Actor().Velocity.Len() != 0 || g.Actor().Rotation != 0 {
		t.Error("expected zero velocity and rotation")
	}
	if g.Actor().CollisionMask != actorCollisionMask {
		t.Errorf("expected full collision mask, got %s", g.Actor().CollisionMask)
	}
}

func TestScoreTriggerIgnoredOutsideRunning(t *testing.T) {
	g := collidedWithPair(t)
	want := g.Score()

	touchTrigger := func() {
		t.Helper()
		p := g.Pairs()[0]
		trigger, ok := g.world.Body(p.Trigger)
		if !ok {
			t.Fatal("trigger body missing")
		}
		g.actor.Position = mgl64.Vec2{p.TriggerX(g.cfg), 450}
		if res := g.Step(core.NewInputFrame()); res.Has(core.EffectScorePulse) {
			t.Errorf("score pulse fired while %s", g.Phase())
		}
		if _, overlap := physics.Overlap(g.actor, trigger); !overlap {
			t.Fatal("expected the actor to overlap the trigger")
		}
		if g.Score() != want {
			t.Errorf("score changed to %d while %s, want %d", g.Score(), g.Phase(), want)
		}
	}

	if g.Phase() != PhaseCollided {
		t.Fatalf("expected collided, got %s", g.Phase())
	}
	touchTrigger()

	stepUntil(t, g, 600, func() bool { return g.Phase() == PhaseAwaitingRestart })
	// Separate first so the next overlap is a new contact.
	g.actor.Position = mgl64.Vec2{140, 450}
	g.Step(core.NewInputFrame())
	touchTrigger()
	if g.Phase() != PhaseAwaitingRestart {
		t.Errorf("expected awaiting restart, got %s", g.Phase())
	}
}

func TestCornerHitKeepsActorColumn(t *testing.T) {
	g := New(hoverConfig())
	g.Reset(testRuntime(8))
	// Wait until the pair is over the ground so the actor can land beside it.
	stepUntil(t, g, 600, func() bool { return len(g.Pairs()) > 0 && g.Pairs()[0].X < 300 })

	p := g.Pairs()[0]
	x := p.X - g.cfg.Obstacles.Width/2 - 8
	g.actor.Position = mgl64.Vec2{x, p.LowerTop(g.cfg) + 10}
	g.actor.Velocity = mgl64.Vec2{0, -300}

	g.Step(core.NewInputFrame())

	if g.Phase() != PhaseCollided || g.Cause() != CauseObstacle {
		t.Fatalf("expected obstacle collision, got %s/%s", g.Phase(), g.Cause())
	}
	if vx := g.Actor().Velocity.X(); vx != 0 {
		t.Errorf("corner push gave the actor vx %g", vx)
	}

	g.world.Gravity = -800
	idle := core.NewInputFrame()
	for i := 0; i < 90; i++ {
		g.Step(idle)
	}
	if got := g.Actor().Position.X(); got != x {
		t.Errorf("actor drifted from x %g to %g", x, got)
	}
	if y := g.Actor().Position.Y(); math.Abs(y-162) > 1e-6 {
		t.Errorf("expected actor on the ground at y=162, got %g", y)
	}
	if vx := g.Actor().Velocity.X(); vx != 0 {
		t.Errorf("expected vx 0 after landing, got %g", vx)
	}
}

func TestScorePulse(t *testing.T) {
	g := New(hoverConfig())
	g.Reset(testRuntime(2))

	idle := core.NewInputFrame()
	for i := 0; i < 1000; i++ {
		if g.Step(idle).Has(core.EffectScorePulse) {
			break
		}
	}
	if g.Score() != 1 {
		t.Fatalf("expected score 1, got %d", g.Score())
	}
	if g.Pulse() != 1.5 {
		t.Errorf("expected pulse scale 1.5, got %g", g.Pulse())
	}

	for i := 0; i < 10; i++ {
		g.Step(idle)
	}
	if g.Pulse() != 1 {
		t.Errorf("expected pulse to settle back to 1, got %g", g.Pulse())
	}
}

func TestGameDeterminism(t *testing.T) {
	run := func() Snapshot {
		g := NewDefault()
		g.Reset(testRuntime(12345))
		for i := 0; i < 300; i++ {
			in := core.NewInputFrame()
			if i%25 == 0 {
				in.Set(core.ActionPress)
			}
			g.Step(in)
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if a.Hash() != b.Hash() {
		t.Errorf("expected identical hashes, got %x and %x", a.Hash(), b.Hash())
	}
	if a.Tick != b.Tick || a.Score != b.Score || a.ActorY != b.ActorY {
		t.Errorf("snapshots differ: %+v vs %+v", a, b)
	}
}

func TestLifeSeed(t *testing.T) {
	if LifeSeed(42, 0) != 42 {
		t.Error("life 0 must use the session seed")
	}
	if LifeSeed(42, 1) == 42 || LifeSeed(42, 1) == LifeSeed(42, 2) {
		t.Error("each life must get its own seed")
	}
}

func TestRender(t *testing.T) {
	g := NewDefault()
	g.Reset(testRuntime(1))

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if screen.Background() != core.ColorSky {
		t.Errorf("expected sky background, got %d", screen.Background())
	}
	// Ground top edge at world y=150 -> row 18 of 24.
	if r := screen.Get(1, 18); r != GroundEdge && r != GroundMark {
		t.Errorf("expected ground edge at row 18, got %q", r)
	}
	// Actor at (140, 360) -> column 28, row 9.
	if r := screen.Get(28, 9); r != '▶' {
		t.Errorf("expected actor glyph, got %q", r)
	}
}

func TestWingFrames(t *testing.T) {
	tests := []struct {
		tick uint64
		want int
	}{
		{0, 0},
		{11, 0},
		{12, 1},
		{23, 1},
		{24, 0},
	}
	for _, tt := range tests {
		if got := wingFrame(tt.tick, 1.0/60.0, 0.2); got != tt.want {
			t.Errorf("wingFrame(%d) = %d, want %d", tt.tick, got, tt.want)
		}
	}
	if got := wingFrame(30, 1.0/60.0, 0); got != 0 {
		t.Errorf("disabled flapping must stay on frame 0, got %d", got)
	}
}

func TestRenderAlternatesWings(t *testing.T) {
	g := New(hoverConfig())
	g.Reset(testRuntime(1))

	idle := core.NewInputFrame()
	glyphAt := func() rune {
		screen := core.NewScreen(80, 24)
		g.Render(screen)
		v := newViewport(g.cfg, screen)
		pos := g.Actor().Position
		return screen.Get(v.col(pos.X()), v.row(pos.Y()))
	}

	for i := 0; i < 11; i++ {
		g.Step(idle)
	}
	if r := glyphAt(); r != levelGlyphs[0] {
		t.Errorf("tick %d: expected %q, got %q", g.State().Tick, levelGlyphs[0], r)
	}
	g.Step(idle)
	if r := glyphAt(); r != levelGlyphs[1] {
		t.Errorf("tick %d: expected %q, got %q", g.State().Tick, levelGlyphs[1], r)
	}
	if g.Frame() != 1 {
		t.Errorf("expected frame 1, got %d", g.Frame())
	}
}

func TestRenderFlash(t *testing.T) {
	g := collidedGame(t)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !g.FlashOn() {
		t.Fatal("expected flash to be on right after the collision")
	}
	if screen.Background() != core.ColorRed {
		t.Errorf("expected red background while flashing, got %d", screen.Background())
	}
}
