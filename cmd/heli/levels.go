package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heli/internal/levels"
	"github.com/vovakirdan/tui-heli/internal/progress"
	"github.com/vovakirdan/tui-heli/internal/storage"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List chapters and levels",
	Long: `Shows every chapter and level of the catalog with your unlock
progress, best stars and high scores.

Examples:
  heli levels
  heli levels --levels ./my-chapters.yaml`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) error {
	_, catalog, err := loadGameData()
	if err != nil {
		return err
	}

	logger, closeLog := newLogger(false)
	defer closeLog()

	var prog *progress.Store
	var stats map[string]*storage.LevelStats
	if store := openStore(logger); store != nil {
		defer store.Close()
		prog = progress.NewStore(store, logger)
		if stats, err = store.GetAllLevelStats(); err != nil {
			logger.Warn("could not load level stats", "err", err)
		}
	}

	var unlockedByChapter map[string]progress.Progress
	if prog != nil {
		unlockedByChapter = prog.All()
	}

	header := color.New(color.FgYellow, color.Bold)
	locked := color.New(color.FgHiBlack)
	stars := color.New(color.FgHiYellow)

	for _, ch := range catalog.Chapters() {
		header.Printf("%s (%s)\n", ch.Title, ch.ID)
		if ch.Description != "" {
			fmt.Printf("  %s\n", ch.Description)
		}
		if !ch.Playable() {
			locked.Println("  Coming soon")
			fmt.Println()
			continue
		}

		unlocked := unlockedByChapter[ch.ID].UnlockedLevels

		fmt.Printf("  %-9s  %-10s  %-6s  %-8s  %7s  %-5s  %s\n", "ID", "Name", "Sky", "Shape", "Goal", "Stars", "Best")
		for i, lvl := range ch.Levels {
			if i > unlocked {
				locked.Printf("  %-9s  %-10s  %-6s  %-8s  %7s  %-5s  %s\n",
					lvl.ID, lvl.Name, lvl.Weather, lvl.Waveform, goalString(lvl), "", "locked")
				continue
			}

			best, starCount := "-", 0
			if s, ok := stats[lvl.ID]; ok && s.Runs > 0 {
				starCount = s.BestStars
				best = fmt.Sprintf("%s (%d runs, %s)", humanize.Comma(int64(s.HighScore)), s.Runs, humanize.Time(s.LastPlayed))
			}

			fmt.Printf("  %-9s  %-10s  %-6s  %-8s  %7s  ", lvl.ID, lvl.Name, lvl.Weather, lvl.Waveform, goalString(lvl))
			stars.Printf("%-5s", strings.Repeat("*", starCount)+strings.Repeat(".", 3-starCount))
			fmt.Printf("  %s\n", best)
		}
		fmt.Println()
	}

	fmt.Println("Run 'heli play <chapter> <level>' to fly a level.")
	return nil
}

// goalString renders the goal distance in meters.
func goalString(lvl levels.LevelDefinition) string {
	return humanize.Comma(int64(lvl.Goal/10)) + "m"
}
