package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// DifficultyConfig shapes how a level tightens along its length and how
// obstacle density grows from level to level.
type DifficultyConfig struct {
	EarlyUntil  float64   `yaml:"early_until"` // Progress ratio below which gaps are generous
	LateAfter   float64   `yaml:"late_after"`  // Progress ratio above which gaps are tight
	EarlyBias   BiasRange `yaml:"early_bias"`
	MidBias     BiasRange `yaml:"mid_bias"`
	LateBias    BiasRange `yaml:"late_bias"`
	DensityStep float64   `yaml:"density_step"` // Spacing reduction per level number
	MinDensity  float64   `yaml:"min_density"`  // Lower bound of the density multiplier
}

// BiasRange is a half-open interval [Min, Max) of gap-height bias, where 0
// selects the level's minimum gap height and 1 its maximum.
type BiasRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (b BiasRange) valid() bool {
	return b.Min >= 0 && b.Max <= 1 && b.Min <= b.Max
}

func (d DifficultyConfig) validate() error {
	var errs []error
	if !(d.EarlyUntil >= 0 && d.EarlyUntil <= d.LateAfter && d.LateAfter <= 1) {
		errs = append(errs, fmt.Errorf("config: difficulty bands need 0 <= early_until <= late_after <= 1, got %v/%v", d.EarlyUntil, d.LateAfter))
	}
	for name, b := range map[string]BiasRange{"early_bias": d.EarlyBias, "mid_bias": d.MidBias, "late_bias": d.LateBias} {
		if !b.valid() {
			errs = append(errs, fmt.Errorf("config: %s must satisfy 0 <= min <= max <= 1, got [%v,%v]", name, b.Min, b.Max))
		}
	}
	if d.DensityStep < 0 {
		errs = append(errs, fmt.Errorf("config: density_step must not be negative, got %v", d.DensityStep))
	}
	if d.MinDensity <= 0 {
		errs = append(errs, fmt.Errorf("config: min_density must be positive, got %v", d.MinDensity))
	}
	return errors.Join(errs...)
}

// Sampler is the randomness the difficulty curve needs. *rand.Rand
// satisfies it.
type Sampler interface {
	Float64() float64
}

// Difficulty evaluates the difficulty curve.
type Difficulty struct {
	cfg DifficultyConfig
}

// NewDifficulty creates a difficulty evaluator.
func NewDifficulty(cfg DifficultyConfig) *Difficulty {
	return &Difficulty{cfg: cfg}
}

// Band returns the bias interval used at the given progress ratio.
func (d *Difficulty) Band(ratio float64) BiasRange {
	switch {
	case ratio < d.cfg.EarlyUntil:
		return d.cfg.EarlyBias
	case ratio > d.cfg.LateAfter:
		return d.cfg.LateBias
	default:
		return d.cfg.MidBias
	}
}

// HeightBias samples a gap-height bias for the given progress ratio.
func (d *Difficulty) HeightBias(ratio float64, rng Sampler) float64 {
	band := d.Band(ratio)
	return band.Min + rng.Float64()*(band.Max-band.Min)
}

// DensityMultiplier scales a level's obstacle spacing. Level 1 keeps the
// base spacing; each later level shortens it by DensityStep.
func (d *Difficulty) DensityMultiplier(levelNumber int) float64 {
	if levelNumber < 1 {
		levelNumber = 1
	}
	m := 1.0 - float64(levelNumber-1)*d.cfg.DensityStep
	return math.Max(m, d.cfg.MinDensity)
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset maps a user-supplied name to a preset. Unknown or empty names
// fall back to normal.
func ParsePreset(name string) DifficultyPreset {
	switch DifficultyPreset(strings.ToLower(strings.TrimSpace(name))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyNormal
	}
}

// ApplyPreset adjusts run rules for a difficulty preset. Normal leaves the
// loaded configuration untouched.
func ApplyPreset(cfg *HeliConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Run.Lives += 2
		cfg.Run.InvincibleSeconds *= 1.5
		cfg.Run.ScrollSpeed *= 0.85
		cfg.Course.GapFloor = math.Max(cfg.Course.GapFloor, 180)
	case DifficultyHard:
		cfg.Run.Lives = max(1, cfg.Run.Lives-2)
		cfg.Run.InvincibleSeconds *= 0.75
		cfg.Run.ScrollSpeed *= 1.2
		cfg.Run.MaxRevives = 0
	}
}
