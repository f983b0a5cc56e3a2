package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heli/internal/storage"
)

var (
	flagRecent bool
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level-id]",
	Short: "Show the best runs",
	Long: `Display the top 10 runs, over all levels or for one level.

Examples:
  heli scores
  heli scores rural-3
  heli scores --recent
  heli scores --clear rural-3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the latest runs instead of the best")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the run history of the level, or of every level")
}

func runScores(_ *cobra.Command, args []string) error {
	levelID := ""
	if len(args) == 1 {
		levelID = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRuns(levelID); err != nil {
			return err
		}
		if levelID == "" {
			fmt.Println("Cleared the run history of every level.")
		} else {
			fmt.Printf("Cleared the run history of %s.\n", levelID)
		}
		return nil
	}

	var runs []storage.RunRecord
	title := "all levels"
	if levelID != "" {
		title = levelID
	}

	switch {
	case flagRecent:
		runs, err = store.RecentRuns(10)
		title = "recent runs"
	default:
		runs, err = store.TopRuns(levelID, 10)
	}
	if err != nil {
		return fmt.Errorf("cannot retrieve runs: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'heli menu' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-9s  %-8s  %-5s  %-8s  %-9s  %s\n", "Rank", "Level", "Score", "Stars", "Result", "Distance", "When")
	fmt.Printf("  %-4s  %-9s  %-8s  %-5s  %-8s  %-9s  %s\n", "----", "-----", "-----", "-----", "------", "--------", "----")

	for i, r := range runs {
		result := "crashed"
		if r.Outcome == storage.OutcomeComplete {
			result = "cleared"
		}
		fmt.Printf("  %-4d  %-9s  %-8s  %-5s  %-8s  %-9s  %s\n",
			i+1,
			r.LevelID,
			humanize.Comma(int64(r.Score)),
			strings.Repeat("*", r.Stars),
			result,
			humanize.Comma(int64(r.Distance/10))+"m",
			humanize.Time(r.CreatedAt),
		)
	}

	if levelID != "" && !flagRecent {
		fmt.Println()
		if stats, err := store.GetLevelStats(levelID); err == nil {
			fmt.Println(levelSummary(stats))
		}
	}
	return nil
}

// levelSummary renders the aggregate line printed under a level's runs.
func levelSummary(stats *storage.LevelStats) string {
	return fmt.Sprintf("Best: %s  Runs: %d  Cleared: %d  Average: %s",
		humanize.Comma(int64(stats.HighScore)),
		stats.Runs,
		stats.Completions,
		humanize.Commaf(math.Round(stats.AvgScore)),
	)
}
