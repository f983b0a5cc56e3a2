package heli

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-heli/internal/config"
	"github.com/vovakirdan/tui-heli/internal/core"
	"github.com/vovakirdan/tui-heli/internal/levels"
)

// ErrInvalidSpacing is returned when a level's effective obstacle spacing
// would not move the spawn cursor forward.
var ErrInvalidSpacing = errors.New("heli: obstacle spacing must be positive")

// ObstaclePair is a top/bottom obstacle with a gap between them. Geometry is
// fixed at spawn; only Active changes afterwards.
type ObstaclePair struct {
	Anchor float64  // World x of the pair's center line
	Gap    Gap      // Passable opening
	Top    core.Box // From the viewport top down to the gap
	Bottom core.Box // From the gap down to the viewport bottom
	Active bool     // Inside the visible window and tested for collisions
}

// Left returns the world x of the pair's left edge.
func (p ObstaclePair) Left() float64 {
	return p.Top.X
}

// Right returns the world x of the pair's right edge.
func (p ObstaclePair) Right() float64 {
	return p.Top.Right()
}

// Course handles spawning, activation and removal of obstacle pairs for one
// level. Anchors are fixed world positions; the vehicle's world progress
// moves past them.
type Course struct {
	level      levels.LevelDefinition
	cfg        config.Course
	viewport   config.Viewport
	difficulty *config.Difficulty
	rng        *rand.Rand
	logger     *log.Logger

	pairs []ObstaclePair
	next  float64 // Anchor of the next pair to spawn
	step  float64 // Distance between consecutive anchors
}

// NewCourse creates a course generator for the level. It fails with
// ErrInvalidSpacing when the level's spacing scaled by its density
// multiplier is not positive.
func NewCourse(level levels.LevelDefinition, cfg config.HeliConfig, diff *config.Difficulty, rng *rand.Rand, logger *log.Logger) (*Course, error) {
	step := math.Floor(level.Spacing * diff.DensityMultiplier(level.Number))
	if step <= 0 {
		return nil, fmt.Errorf("%w: level %s spacing %v gives step %v", ErrInvalidSpacing, level.ID, level.Spacing, step)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Course{
		level:      level,
		cfg:        cfg.Course,
		viewport:   cfg.Viewport,
		difficulty: diff,
		rng:        rng,
		logger:     logger,
		pairs:      make([]ObstaclePair, 0, 8),
		next:       cfg.Course.FirstAnchor,
		step:       step,
	}, nil
}

// Step returns the distance between consecutive anchors.
func (c *Course) Step() float64 {
	return c.step
}

// NextAnchor returns the anchor the next pair will spawn at.
func (c *Course) NextAnchor() float64 {
	return c.next
}

// Goal returns the level's goal distance.
func (c *Course) Goal() float64 {
	return c.level.Goal
}

// Advance spawns every pair whose anchor falls inside the spawn horizon
// and before the goal, at most MaxSpawnPerTick per call. It returns the
// number of pairs spawned.
func (c *Course) Advance(progress float64) int {
	horizon := progress + c.viewport.Width + c.cfg.SpawnLookahead

	spawned := 0
	for c.next < horizon && c.next < c.level.Goal && spawned < c.cfg.MaxSpawnPerTick {
		prev := c.next
		c.spawn(c.next)
		spawned++

		c.next += c.step
		if c.next <= prev {
			c.logger.Error("spawn cursor did not advance", "level", c.level.ID, "anchor", prev, "step", c.step)
			break
		}
	}
	return spawned
}

// spawn creates a pair at the given anchor.
func (c *Course) spawn(anchor float64) {
	gap := c.ComputeGap(anchor / c.level.Goal)
	w := c.cfg.ObstacleWidth
	x := anchor - w/2

	c.pairs = append(c.pairs, ObstaclePair{
		Anchor: anchor,
		Gap:    gap,
		Top:    core.NewBox(x, 0, w, gap.Top()),
		Bottom: core.NewBox(x, gap.Bottom(), w, c.viewport.Height-gap.Bottom()),
	})
}

// Retire removes pairs that fell behind the trailing margin and marks the
// rest active when they are inside the visible window. It returns the
// number of pairs removed.
func (c *Course) Retire(progress float64) int {
	kept := c.pairs[:0]
	for _, p := range c.pairs {
		screenX := p.Anchor - progress
		if screenX < -c.cfg.TrailingMargin {
			continue
		}
		p.Active = screenX > -c.cfg.VisibleMargin && screenX < c.viewport.Width+c.cfg.VisibleMargin
		kept = append(kept, p)
	}

	removed := len(c.pairs) - len(kept)
	c.pairs = kept
	return removed
}

// Pairs returns the live pairs in spawn order. The slice must not be
// modified.
func (c *Course) Pairs() []ObstaclePair {
	return c.pairs
}

// ActiveColliders returns the top and bottom boxes of every active pair.
func (c *Course) ActiveColliders() []core.Box {
	boxes := make([]core.Box, 0, len(c.pairs)*2)
	for _, p := range c.pairs {
		if p.Active {
			boxes = append(boxes, p.Top, p.Bottom)
		}
	}
	return boxes
}

// Collides tests if the given box overlaps any active pair.
func (c *Course) Collides(box core.Box) bool {
	for _, p := range c.pairs {
		if !p.Active {
			continue
		}
		if box.Intersects(p.Top) || box.Intersects(p.Bottom) {
			return true
		}
	}
	return false
}
