package config

import (
	_ "embed"
	"math"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the hard-coded default configuration.
// It mirrors defaults/flappy.yaml and is the last-resort fallback.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		World: WorldConfig{
			Width:        400,
			Height:       600,
			GroundHeight: 150,
		},
		Physics: PhysicsConfig{
			Gravity: -800,
			Impulse: 330,
		},
		Actor: ActorConfig{
			XRatio: 0.35,
			YRatio: 0.6,
			Radius: 12,
		},
		Obstacles: ObstaclesConfig{
			Width:         52,
			SegmentHeight: 300,
			VerticalGap:   150,
			Speed:         100,
			SpawnPeriod:   2.0,
		},
		Tilt: TiltConfig{
			DescendScale: 0.003,
			AscendScale:  0.001,
			Min:          -1.0,
			Max:          0.5,
		},
		Feedback: FeedbackConfig{
			FlashCount:        4,
			FlashInterval:     0.05,
			DeathSpinAngle:    math.Pi,
			DeathSpinDuration: 1.0,
			PulseScale:        1.5,
			PulseDuration:     0.1,
			FlapPeriod:        0.2,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
