package flappy

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// PairSnapshot is the position of one obstacle pair.
type PairSnapshot struct {
	X float64
	Y float64
}

// Snapshot captures the gameplay state for determinism testing and replay.
type Snapshot struct {
	Tick     uint64
	Life     int
	Phase    Phase
	Score    int
	Cause    Cause
	ActorX   float64
	ActorY   float64
	ActorVY  float64
	Rotation float64
	Pairs    []PairSnapshot
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	pairs := make([]PairSnapshot, 0, g.pipes.Count())
	for _, p := range g.pipes.Pairs() {
		pairs = append(pairs, PairSnapshot{X: p.X, Y: p.Y})
	}
	pos := g.actor.Position
	return Snapshot{
		Tick:     g.tick,
		Life:     g.life,
		Phase:    g.phase,
		Score:    g.score,
		Cause:    g.cause,
		ActorX:   pos.X(),
		ActorY:   pos.Y(),
		ActorVY:  g.actor.Velocity.Y(),
		Rotation: g.actor.Rotation,
		Pairs:    pairs,
	}
}

// Hash returns a stable 64-bit digest of the snapshot. Life is left out so a
// replayed life hashes the same as the life it was recorded from.
func (s Snapshot) Hash() uint64 {
	buf := make([]byte, 0, 64+16*len(s.Pairs))
	buf = binary.LittleEndian.AppendUint64(buf, s.Tick)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(s.Phase))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(s.Score))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(s.Cause))
	for _, f := range []float64{s.ActorX, s.ActorY, s.ActorVY, s.Rotation} {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
	}
	for _, p := range s.Pairs {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.X))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Y))
	}
	return xxh3.Hash(buf)
}
