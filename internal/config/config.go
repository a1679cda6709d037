// Package config provides YAML-based world configuration loading for the
// game. All values are fixed at scene construction.
package config

import (
	"errors"
	"fmt"
)

// FlappyConfig contains all world constants for the game.
// Units are world units (y up, ground at the bottom) and seconds.
type FlappyConfig struct {
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Actor     ActorConfig     `yaml:"actor"`
	Obstacles ObstaclesConfig `yaml:"obstacles"`
	Tilt      TiltConfig      `yaml:"tilt"`
	Feedback  FeedbackConfig  `yaml:"feedback"`
}

// WorldConfig defines the size of the simulated world.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundHeight float64 `yaml:"ground_height"` // Top edge of the ground body
}

// PhysicsConfig defines gravity and the flap impulse.
type PhysicsConfig struct {
	Gravity float64 `yaml:"gravity"` // Negative: pulls toward the ground
	Impulse float64 `yaml:"impulse"` // Upward velocity set on every flap
}

// ActorConfig defines the actor's resting position and hitbox.
type ActorConfig struct {
	XRatio float64 `yaml:"x_ratio"` // Horizontal position as a fraction of world width
	YRatio float64 `yaml:"y_ratio"` // Start height as a fraction of world height
	Radius float64 `yaml:"radius"`
}

// ObstaclesConfig defines obstacle pair geometry and cadence.
type ObstaclesConfig struct {
	Width         float64 `yaml:"width"`
	SegmentHeight float64 `yaml:"segment_height"`
	VerticalGap   float64 `yaml:"vertical_gap"` // Passable gap between the segments
	Speed         float64 `yaml:"speed"`        // Leftward world units per second
	SpawnPeriod   float64 `yaml:"spawn_period"` // Seconds between spawns
}

// TiltConfig defines how the actor's visual tilt follows its vertical velocity.
type TiltConfig struct {
	DescendScale float64 `yaml:"descend_scale"`
	AscendScale  float64 `yaml:"ascend_scale"`
	Min          float64 `yaml:"min"`
	Max          float64 `yaml:"max"`
}

// FeedbackConfig defines the timed visual sequences.
type FeedbackConfig struct {
	FlashCount        int     `yaml:"flash_count"`
	FlashInterval     float64 `yaml:"flash_interval"` // Length of each on and each off half
	DeathSpinAngle    float64 `yaml:"death_spin_angle"`
	DeathSpinDuration float64 `yaml:"death_spin_duration"`
	PulseScale        float64 `yaml:"pulse_scale"`
	PulseDuration     float64 `yaml:"pulse_duration"`
	FlapPeriod        float64 `yaml:"flap_period"` // Seconds each wing frame is shown
}

// QuarterHeight returns a quarter of the world height, the unit the spawner
// samples obstacle offsets in.
func (c FlappyConfig) QuarterHeight() float64 {
	return c.World.Height / 4
}

// TravelDistance returns how far an obstacle pair scrolls before removal.
func (c FlappyConfig) TravelDistance() float64 {
	return c.World.Width + 2*c.Obstacles.Width
}

// ActorStart returns the actor's initial world position.
func (c FlappyConfig) ActorStart() (x, y float64) {
	return c.World.Width * c.Actor.XRatio, c.World.Height * c.Actor.YRatio
}

// Validate reports configuration values the simulation cannot work with.
// The game itself never validates; hosts call this after loading.
func (c FlappyConfig) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %gx%g", c.World.Width, c.World.Height))
	}
	if c.World.GroundHeight < 0 || c.World.GroundHeight >= c.World.Height {
		errs = append(errs, fmt.Errorf("ground_height %g must be within [0, %g)", c.World.GroundHeight, c.World.Height))
	}
	if c.Obstacles.SpawnPeriod <= 0 {
		errs = append(errs, fmt.Errorf("spawn_period must be positive, got %g", c.Obstacles.SpawnPeriod))
	}
	if c.Obstacles.Speed <= 0 {
		errs = append(errs, fmt.Errorf("obstacle speed must be positive, got %g", c.Obstacles.Speed))
	}
	if c.Obstacles.Width <= 0 || c.Obstacles.SegmentHeight <= 0 {
		errs = append(errs, errors.New("obstacle width and segment_height must be positive"))
	}
	if c.Obstacles.VerticalGap <= 0 || c.Obstacles.VerticalGap >= c.World.Height {
		errs = append(errs, fmt.Errorf("vertical_gap %g must be within (0, %g)", c.Obstacles.VerticalGap, c.World.Height))
	}
	if c.Actor.Radius <= 0 {
		errs = append(errs, fmt.Errorf("actor radius must be positive, got %g", c.Actor.Radius))
	}
	if c.Feedback.FlashCount < 0 || c.Feedback.FlashInterval < 0 || c.Feedback.DeathSpinDuration < 0 || c.Feedback.FlapPeriod < 0 {
		errs = append(errs, errors.New("feedback durations and counts must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid flappy config: %w", errors.Join(errs...))
	}
	return nil
}
