// heli is a side-scrolling helicopter game for the terminal.
//
// Usage:
//
//	heli play [chapter] [level]  - Fly a level directly
//	heli menu                    - Level select menu with progress and scores
//	heli levels                  - List chapters, levels and your progress
//	heli course <level-id>       - Print the obstacle layout of a level
//	heli scores [level-id]       - Show the best runs
//	heli serve                   - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible courses
//	--db <path>           - Set database path (default: ~/.heli/heli.db)
//	--config <path>       - Custom tuning YAML
//	--levels <path>       - Custom chapter catalog YAML
//	--difficulty <name>   - easy, normal or hard
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Log destination while a TUI is running
//	--sound               - Play sound cues through the speaker
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagLevels     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
	flagSound      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "heli",
	Short: "Heli - fly a helicopter through procedural caves in your terminal",
	Long: `Heli is a one-button side-scroller. Hold thrust to climb, let go to
fall, and thread the gaps between obstacles until you reach the goal.

Available commands:
  play     - Fly a level directly
  menu     - Level select with progress, stars and scores
  levels   - List chapters and levels
  course   - Print the obstacle layout a seed produces
  scores   - View the best runs
  serve    - Start SSH server for remote play

Examples:
  heli menu
  heli play rural 3
  heli play --difficulty easy
  heli course rural-2 --seed 42
  heli serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.heli/heli.db", "Path to the database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	pf.StringVar(&flagLevels, "levels", "", "Path to custom chapter catalog YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Log file while a TUI is running (default ~/.heli/heli.log)")
	pf.BoolVar(&flagSound, "sound", false, "Play sound cues")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}
