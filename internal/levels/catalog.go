// Package levels holds the static chapter and level catalog: course length,
// goal distance, star thresholds and the difficulty parameters the course
// generator reads. Definitions are immutable once the catalog is built.
package levels

import (
	"errors"
	"fmt"
)

// ErrNoPlayableChapters is returned when no chapter has at least one level.
var ErrNoPlayableChapters = errors.New("levels: no playable chapters")

// Weather is the ambient effect shown while a level runs.
type Weather string

const (
	WeatherSunny Weather = "sunny"
	WeatherWindy Weather = "windy"
	WeatherRain  Weather = "rain"
	WeatherSnow  Weather = "snow"
)

// Valid reports whether w is a known weather kind.
func (w Weather) Valid() bool {
	switch w {
	case WeatherSunny, WeatherWindy, WeatherRain, WeatherSnow:
		return true
	}
	return false
}

// Waveform names the signature curve that places gap centers along a level.
type Waveform string

const (
	WaveGentleSine Waveform = "gentle-sine"
	WaveSineJitter Waveform = "sine-jitter"
	WaveSineSaw    Waveform = "sine-saw"
	WaveStepped    Waveform = "stepped"
	WaveDualSine   Waveform = "dual-sine"
	WaveFlat       Waveform = "flat"
)

// Valid reports whether w is a known waveform.
func (w Waveform) Valid() bool {
	switch w {
	case WaveGentleSine, WaveSineJitter, WaveSineSaw, WaveStepped, WaveDualSine, WaveFlat:
		return true
	}
	return false
}

// Range is a closed interval in world units.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Stars holds the minimum remaining lives needed for each star tier.
type Stars struct {
	Star3 int `yaml:"star3"`
	Star2 int `yaml:"star2"`
	Star1 int `yaml:"star1"`
}

// StarBaseLives is the life count the catalog's star thresholds are written
// for.
const StarBaseLives = 5

// Scale converts the thresholds to a run that starts with maxLives lives,
// rounding up so a full-health finish always earns three stars.
func (s Stars) Scale(maxLives int) Stars {
	if maxLives == StarBaseLives || maxLives <= 0 {
		return s
	}
	scale := func(v int) int {
		return min((v*maxLives+StarBaseLives-1)/StarBaseLives, maxLives)
	}
	return Stars{Star3: scale(s.Star3), Star2: scale(s.Star2), Star1: scale(s.Star1)}
}

// Rate returns the star rating earned with the given remaining lives.
func (s Stars) Rate(lives int) int {
	switch {
	case lives >= s.Star3:
		return 3
	case lives >= s.Star2:
		return 2
	default:
		return 1
	}
}

// LevelDefinition describes one level.
type LevelDefinition struct {
	ID        string   `yaml:"id"`
	ChapterID string   `yaml:"-"`
	Number    int      `yaml:"number"` // 1-based, drives the density multiplier
	Name      string   `yaml:"name"`
	Weather   Weather  `yaml:"weather"`
	Waveform  Waveform `yaml:"waveform"`
	Length    float64  `yaml:"length"`
	Goal      float64  `yaml:"goal"`
	Stars     Stars    `yaml:"stars"`
	Spacing   float64  `yaml:"spacing"` // Nominal distance between obstacle pairs
	GapHeight Range    `yaml:"gap_height"`
	GapCenter Range    `yaml:"gap_center"`
}

// Validate returns every invariant violation of the definition.
func (l LevelDefinition) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("levels: %s: "+format, append([]any{l.ID}, args...)...))
		}
	}

	check(l.ID != "", "missing id")
	check(l.Goal > 0, "goal must be positive, got %v", l.Goal)
	check(l.Goal <= l.Length, "goal %v exceeds length %v", l.Goal, l.Length)
	check(l.Spacing > 0, "spacing must be positive, got %v", l.Spacing)
	check(l.GapHeight.Min > 0 && l.GapHeight.Min <= l.GapHeight.Max, "gap_height [%v,%v] is invalid", l.GapHeight.Min, l.GapHeight.Max)
	check(l.GapCenter.Min <= l.GapCenter.Max, "gap_center [%v,%v] is invalid", l.GapCenter.Min, l.GapCenter.Max)
	check(l.Stars.Star3 >= l.Stars.Star2 && l.Stars.Star2 >= l.Stars.Star1 && l.Stars.Star1 >= 0,
		"stars must satisfy star3 >= star2 >= star1 >= 0, got %d/%d/%d", l.Stars.Star3, l.Stars.Star2, l.Stars.Star1)
	check(l.Weather.Valid(), "unknown weather %q", l.Weather)
	check(l.Waveform.Valid(), "unknown waveform %q", l.Waveform)

	return errors.Join(errs...)
}

// Chapter groups levels. A chapter without levels is listed but not playable.
type Chapter struct {
	ID          string            `yaml:"id"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Levels      []LevelDefinition `yaml:"levels"`
}

// Playable reports whether the chapter has at least one level.
func (c Chapter) Playable() bool {
	return len(c.Levels) > 0
}

// Launch identifies the level a session should play.
type Launch struct {
	ChapterID  string
	LevelIndex int
}

// Catalog is the validated, read-only set of chapters.
type Catalog struct {
	chapters []Chapter
}

// NewCatalog validates the chapters and builds a catalog. Levels inherit
// their chapter's ID, and a zero Number defaults to the level's position.
func NewCatalog(chapters []Chapter) (*Catalog, error) {
	var errs []error
	seenChapters := make(map[string]bool)
	seenLevels := make(map[string]bool)

	built := make([]Chapter, len(chapters))
	for i, ch := range chapters {
		if ch.ID == "" {
			errs = append(errs, fmt.Errorf("levels: chapter %d has no id", i))
		} else if seenChapters[ch.ID] {
			errs = append(errs, fmt.Errorf("levels: duplicate chapter %q", ch.ID))
		}
		seenChapters[ch.ID] = true

		lvls := make([]LevelDefinition, len(ch.Levels))
		for j, lvl := range ch.Levels {
			lvl.ChapterID = ch.ID
			if lvl.Number == 0 {
				lvl.Number = j + 1
			}
			if err := lvl.Validate(); err != nil {
				errs = append(errs, err)
			}
			if lvl.ID != "" && seenLevels[lvl.ID] {
				errs = append(errs, fmt.Errorf("levels: duplicate level %q", lvl.ID))
			}
			seenLevels[lvl.ID] = true
			lvls[j] = lvl
		}
		ch.Levels = lvls
		built[i] = ch
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Catalog{chapters: built}, nil
}

// Chapters returns all chapters in catalog order.
func (c *Catalog) Chapters() []Chapter {
	return c.chapters
}

// Chapter looks up a chapter by ID.
func (c *Catalog) Chapter(id string) (Chapter, bool) {
	for _, ch := range c.chapters {
		if ch.ID == id {
			return ch, true
		}
	}
	return Chapter{}, false
}

// Level looks up a level by chapter and 0-based index.
func (c *Catalog) Level(chapterID string, index int) (LevelDefinition, bool) {
	ch, ok := c.Chapter(chapterID)
	if !ok || index < 0 || index >= len(ch.Levels) {
		return LevelDefinition{}, false
	}
	return ch.Levels[index], true
}

// FirstPlayable returns the first chapter with at least one level.
func (c *Catalog) FirstPlayable() (Chapter, error) {
	for _, ch := range c.chapters {
		if ch.Playable() {
			return ch, nil
		}
	}
	return Chapter{}, ErrNoPlayableChapters
}

// Resolve turns launch parameters into a level. An unknown or empty
// chapter falls back to the first playable chapter and the index is
// clamped into range. The returned Launch carries the values actually used.
func (c *Catalog) Resolve(l Launch) (LevelDefinition, Launch, error) {
	ch, ok := c.Chapter(l.ChapterID)
	if !ok || !ch.Playable() {
		first, err := c.FirstPlayable()
		if err != nil {
			return LevelDefinition{}, Launch{}, err
		}
		ch = first
	}

	idx := l.LevelIndex
	if idx < 0 {
		idx = 0
	}
	if idx > len(ch.Levels)-1 {
		idx = len(ch.Levels) - 1
	}

	return ch.Levels[idx], Launch{ChapterID: ch.ID, LevelIndex: idx}, nil
}
