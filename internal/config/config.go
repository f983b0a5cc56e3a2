// Package config provides YAML-based tuning for the helicopter game:
// viewport, physics, course generation, run rules, scoring and the
// difficulty curve, plus difficulty presets.
package config

import (
	"errors"
	"fmt"
	"time"
)

// HeliConfig contains all tuning for the game.
type HeliConfig struct {
	Viewport   Viewport         `yaml:"viewport"`
	Physics    Physics          `yaml:"physics"`
	Vehicle    Vehicle          `yaml:"vehicle"`
	Course     Course           `yaml:"course"`
	Run        Run              `yaml:"run"`
	Score      Score            `yaml:"score"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Input      Input            `yaml:"input"`
}

// Viewport is the visible slice of the world, in world units.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Physics defines single-axis vertical kinematics (units per second).
type Physics struct {
	Gravity       float64 `yaml:"gravity"`
	Thrust        float64 `yaml:"thrust"`
	MaxUpSpeed    float64 `yaml:"max_up_speed"`
	MaxDownSpeed  float64 `yaml:"max_down_speed"`
	TopBound      float64 `yaml:"top_bound"`
	BottomBound   float64 `yaml:"bottom_bound"`
	BounceDamping float64 `yaml:"bounce_damping"` // Fraction of speed kept after boundary contact
}

// Vehicle defines the player's hitbox. X is the fixed offset from the left
// edge of the viewport.
type Vehicle struct {
	X      float64 `yaml:"x"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Course defines obstacle generation and lifecycle parameters.
type Course struct {
	FirstAnchor     float64 `yaml:"first_anchor"`
	SpawnLookahead  float64 `yaml:"spawn_lookahead"`
	TrailingMargin  float64 `yaml:"trailing_margin"`
	VisibleMargin   float64 `yaml:"visible_margin"`
	MaxSpawnPerTick int     `yaml:"max_spawn_per_tick"`
	ObstacleWidth   float64 `yaml:"obstacle_width"`
	GapFloor        float64 `yaml:"gap_floor"`
	UsableMin       float64 `yaml:"usable_min"`
	UsableMax       float64 `yaml:"usable_max"`
	CenterJitter    float64 `yaml:"center_jitter"` // Max center offset as a fraction of gap height
}

// Run defines lives, timing and session rules.
type Run struct {
	Lives             int     `yaml:"lives"`
	InvincibleSeconds float64 `yaml:"invincible_seconds"`
	ScrollSpeed       float64 `yaml:"scroll_speed"`
	MaxRevives        int     `yaml:"max_revives"`
	CompleteDelay     float64 `yaml:"complete_delay"` // Seconds before the completion overlay
	DeadDelay         float64 `yaml:"dead_delay"`     // Seconds before the death overlay
}

// Score defines how distance and cleared pairs turn into points.
type Score struct {
	DistanceFactor float64 `yaml:"distance_factor"`
	PassBonus      int     `yaml:"pass_bonus"`
}

// Input defines platform input handling.
type Input struct {
	// HoldWindowMS is how long a key press counts as held thrust when the
	// terminal does not report key releases.
	HoldWindowMS int `yaml:"hold_window_ms"`
}

// HoldWindow returns the key hold window as a duration.
func (i Input) HoldWindow() time.Duration {
	return time.Duration(i.HoldWindowMS) * time.Millisecond
}

// Validate checks the configuration and returns every violation found.
func (c HeliConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("config: "+format, args...))
		}
	}

	check(c.Viewport.Width > 0 && c.Viewport.Height > 0, "viewport must be positive, got %vx%v", c.Viewport.Width, c.Viewport.Height)
	check(c.Physics.Gravity > 0, "gravity must be positive, got %v", c.Physics.Gravity)
	check(c.Physics.Thrust > 0, "thrust must be positive, got %v", c.Physics.Thrust)
	check(c.Physics.MaxUpSpeed > 0 && c.Physics.MaxDownSpeed > 0, "speed limits must be positive")
	check(c.Physics.TopBound < c.Physics.BottomBound, "top_bound %v must be above bottom_bound %v", c.Physics.TopBound, c.Physics.BottomBound)
	check(c.Physics.BounceDamping >= 0 && c.Physics.BounceDamping <= 1, "bounce_damping must be in [0,1], got %v", c.Physics.BounceDamping)
	check(c.Vehicle.Width > 0 && c.Vehicle.Height > 0, "vehicle hitbox must be positive")
	check(c.Course.MaxSpawnPerTick > 0, "max_spawn_per_tick must be positive, got %d", c.Course.MaxSpawnPerTick)
	check(c.Course.ObstacleWidth > 0, "obstacle_width must be positive, got %v", c.Course.ObstacleWidth)
	check(c.Course.GapFloor > 0, "gap_floor must be positive, got %v", c.Course.GapFloor)
	check(c.Course.UsableMin < c.Course.UsableMax, "usable band [%v,%v] is empty", c.Course.UsableMin, c.Course.UsableMax)
	check(c.Course.UsableMax-c.Course.UsableMin >= c.Course.GapFloor, "usable band is narrower than gap_floor")
	check(c.Course.CenterJitter >= 0 && c.Course.CenterJitter <= 0.1, "center_jitter must be in [0,0.1], got %v", c.Course.CenterJitter)
	check(c.Run.Lives > 0, "lives must be positive, got %d", c.Run.Lives)
	check(c.Run.InvincibleSeconds >= 0, "invincible_seconds must not be negative")
	check(c.Run.ScrollSpeed > 0, "scroll_speed must be positive, got %v", c.Run.ScrollSpeed)
	check(c.Run.MaxRevives >= 0, "max_revives must not be negative")
	check(c.Score.DistanceFactor >= 0 && c.Score.PassBonus >= 0, "score weights must not be negative")

	if err := c.Difficulty.validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
