package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Replay re-simulates a single life from its seed. presses lists the ticks
// (1-based, as reported by GameState.Tick) on which the player pressed.
// Simulation stops at the first collision or after maxTicks.
func Replay(cfg config.FlappyConfig, tickRate int, seed int64, presses []uint64, maxTicks uint64) Snapshot {
	g := New(cfg)
	g.Reset(core.RuntimeConfig{TickRate: tickRate, Seed: seed})

	pressed := make(map[uint64]struct{}, len(presses))
	for _, t := range presses {
		pressed[t] = struct{}{}
	}

	idle := core.NewInputFrame()
	press := core.PressFrame()
	for t := uint64(1); t <= maxTicks; t++ {
		in := idle
		if _, ok := pressed[t]; ok {
			in = press
		}
		g.Step(in)
		if g.phase != PhaseRunning {
			break
		}
	}
	return g.Snapshot()
}
