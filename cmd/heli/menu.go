package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heli/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the level select menu",
	Long: `Start heli in interactive menu mode.

Pick a chapter and a level, fly it, and come back to the menu to see your
stars and unlocks. Levels unlock one at a time as you complete them.

Controls:
  Up/Down/j/k     - Choose level
  Left/Right/h/l  - Choose chapter
  Enter/Space     - Fly
  Tab             - High scores
  X X             - Reset the chapter's progress
  Q               - Quit

Examples:
  heli menu
  heli menu --fps 30
  heli menu --db ./heli.db --sound`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg, catalog, err := loadGameData()
	if err != nil {
		return err
	}

	logger, closeLog := newLogger(true)
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	env := newEnv(cfg, catalog, store, logger)
	defer env.Sound.Close()

	return tui.RunApp(env, runtimeConfig())
}
