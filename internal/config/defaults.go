package config

import (
	_ "embed"
)

//go:embed defaults/heli.yaml
var defaultHeliYAML []byte

// DefaultHeliConfig returns the built-in tuning. It mirrors
// defaults/heli.yaml and is the fallback when the embedded file cannot be
// parsed.
func DefaultHeliConfig() HeliConfig {
	return HeliConfig{
		Viewport: Viewport{
			Width:  720,
			Height: 1280,
		},
		Physics: Physics{
			Gravity:       1400,
			Thrust:        1800,
			MaxUpSpeed:    600,
			MaxDownSpeed:  900,
			TopBound:      60,
			BottomBound:   1200,
			BounceDamping: 0.35,
		},
		Vehicle: Vehicle{
			X:      180,
			Width:  52,
			Height: 52,
		},
		Course: Course{
			FirstAnchor:     1000,
			SpawnLookahead:  500,
			TrailingMargin:  500,
			VisibleMargin:   300,
			MaxSpawnPerTick: 5,
			ObstacleWidth:   150,
			GapFloor:        150,
			UsableMin:       300,
			UsableMax:       960,
			CenterJitter:    0.1,
		},
		Run: Run{
			Lives:             5,
			InvincibleSeconds: 2,
			ScrollSpeed:       200,
			MaxRevives:        1,
			CompleteDelay:     0.5,
			DeadDelay:         0.6,
		},
		Score: Score{
			DistanceFactor: 0.03,
			PassBonus:      10,
		},
		Difficulty: DifficultyConfig{
			EarlyUntil:  0.2,
			LateAfter:   0.8,
			EarlyBias:   BiasRange{Min: 0.7, Max: 1.0},
			MidBias:     BiasRange{Min: 0.3, Max: 0.8},
			LateBias:    BiasRange{Min: 0.0, Max: 0.3},
			DensityStep: 0.05,
			MinDensity:  0.5,
		},
		Input: Input{
			HoldWindowMS: 180,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultHeliYAML
}
