package main

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heli/internal/config"
	"github.com/vovakirdan/tui-heli/internal/games/heli"
	"github.com/vovakirdan/tui-heli/internal/levels"
)

const profileWidth = 24

var flagCourseLimit int

var courseCmd = &cobra.Command{
	Use:   "course <level-id>",
	Short: "Print the obstacle layout of a level",
	Long: `Generates the full course of a level and prints every obstacle pair
with its gap, plus a sideways profile of the opening (top of the screen on
the left). Narrow gaps are highlighted.

The same seed always produces the same course, so this is handy for
checking custom level files and tuning.

Examples:
  heli course rural-1
  heli course rural-4 --seed 42
  heli course rural-5 --limit 10 --difficulty hard`,
	Args: cobra.ExactArgs(1),
	RunE: runCourse,
}

func init() {
	courseCmd.Flags().IntVar(&flagCourseLimit, "limit", 0, "Print at most this many pairs (0 = all)")
}

func findLevel(catalog *levels.Catalog, id string) (levels.LevelDefinition, bool) {
	for _, ch := range catalog.Chapters() {
		for _, lvl := range ch.Levels {
			if lvl.ID == id {
				return lvl, true
			}
		}
	}
	return levels.LevelDefinition{}, false
}

// generateCourse spawns every pair of the level in one pass.
func generateCourse(lvl levels.LevelDefinition, cfg config.HeliConfig, seed int64) ([]heli.ObstaclePair, float64, error) {
	course, err := heli.NewCourse(lvl, cfg, config.NewDifficulty(cfg.Difficulty), rand.New(rand.NewSource(seed)), nil)
	if err != nil {
		return nil, 0, err
	}

	progress := 0.0
	for course.NextAnchor() < course.Goal() {
		course.Advance(progress)
		progress += course.Step()
	}
	return course.Pairs(), course.Step(), nil
}

func runCourse(_ *cobra.Command, args []string) error {
	cfg, catalog, err := loadGameData()
	if err != nil {
		return err
	}

	lvl, ok := findLevel(catalog, args[0])
	if !ok {
		return fmt.Errorf("unknown level %q (run 'heli levels' to list them)", args[0])
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	pairs, step, err := generateCourse(lvl, cfg, seed)
	if err != nil {
		return err
	}

	header := color.New(color.FgYellow, color.Bold)
	narrow := color.New(color.FgRed)

	header.Printf("%s %s (%s)\n", lvl.ID, lvl.Name, lvl.Waveform)
	fmt.Printf("seed %d, %s pairs every %s units, goal %s\n\n",
		seed, humanize.Comma(int64(len(pairs))), humanize.Ftoa(step), humanize.Comma(int64(lvl.Goal)))

	narrowBelow := lvl.GapHeight.Min + (lvl.GapHeight.Max-lvl.GapHeight.Min)/4

	fmt.Printf("  %4s  %8s  %6s  %6s  %6s  %s\n", "#", "Anchor", "Top", "Bottom", "Height", "Profile")
	for i, p := range pairs {
		if flagCourseLimit > 0 && i >= flagCourseLimit {
			fmt.Printf("  ... %d more\n", len(pairs)-i)
			break
		}
		line := fmt.Sprintf("  %4d  %8.0f  %6.0f  %6.0f  %6.0f  %s",
			i+1, p.Anchor, p.Gap.Top(), p.Gap.Bottom(), p.Gap.Height, profile(p.Gap, cfg.Viewport.Height))
		if p.Gap.Height < narrowBelow {
			narrow.Println(line)
		} else {
			fmt.Println(line)
		}
	}
	return nil
}

// profile draws the pair across profileWidth cells: '#' for obstacle, '.'
// for the opening.
func profile(gap heli.Gap, viewportH float64) string {
	if viewportH <= 0 {
		return ""
	}
	top := int(math.Round(gap.Top() / viewportH * profileWidth))
	bottom := int(math.Round(gap.Bottom() / viewportH * profileWidth))
	top = min(max(top, 0), profileWidth)
	bottom = min(max(bottom, top), profileWidth)

	return strings.Repeat("#", top) + strings.Repeat(".", bottom-top) + strings.Repeat("#", profileWidth-bottom)
}
