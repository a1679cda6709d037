package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The game uses it to size the screen buffer and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickSeconds returns the fixed simulation timestep in seconds.
func (c RuntimeConfig) TickSeconds() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameState represents the externally visible state of a session.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score      int    // Current score
	Phase      string // Session phase name ("running", "collided", "awaiting_restart")
	GameOver   bool   // True once the actor has collided, until restart
	CanRestart bool   // True when a press will restart the session
	Life       int    // Number of restarts since Reset
	Tick       uint64 // Ticks elapsed in the current life
}

// Effect names a cosmetic side effect the game triggered during a tick.
// Hosts forward these to whatever renders sound, flashes or labels.
type Effect string

const (
	EffectSpawn           Effect = "spawn"
	EffectDespawn         Effect = "despawn"
	EffectScorePulse      Effect = "score_pulse"
	EffectCollided        Effect = "collided"
	EffectFlashOn         Effect = "flash_on"
	EffectFlashOff        Effect = "flash_off"
	EffectAwaitingRestart Effect = "awaiting_restart"
	EffectRestart         Effect = "restart"
)

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and the effects that fired during the tick.
type StepResult struct {
	State   GameState
	Effects []Effect
}

// Has reports whether the given effect fired during the tick.
func (r StepResult) Has(e Effect) bool {
	for _, fired := range r.Effects {
		if fired == e {
			return true
		}
	}
	return false
}
