package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heli/internal/levels"
	"github.com/vovakirdan/tui-heli/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [chapter] [level]",
	Short: "Fly a level",
	Long: `Start flying a level directly, skipping the menu.

Without arguments the first level of the first playable chapter is flown.
Levels are numbered from 1. An unknown chapter falls back to the first
playable one and the level number is clamped.

Controls:
  Space/Up/W   - Thrust (hold)
  Mouse        - Thrust while the left button is down
  P            - Pause
  V            - Revive after crashing
  Enter        - Next level after completing one
  R            - Restart
  B/Esc        - Leave (after crashing or while paused)
  Q/Ctrl+C     - Quit

Difficulty options:
  easy    - More lives, slower scroll, wider gaps
  normal  - The tuning as configured
  hard    - Fewer lives, faster scroll, no revives

Examples:
  heli play
  heli play rural 3
  heli play rural 2 --difficulty hard
  heli play --config ./my-heli.yaml --seed 42`,
	Args: cobra.MaximumNArgs(2),
	RunE: runPlay,
}

func parseLaunch(args []string) (levels.Launch, error) {
	var launch levels.Launch
	if len(args) > 0 {
		launch.ChapterID = args[0]
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return levels.Launch{}, fmt.Errorf("invalid level %q: want a number from 1", args[1])
		}
		launch.LevelIndex = n - 1
	}
	return launch, nil
}

func runPlay(_ *cobra.Command, args []string) error {
	launch, err := parseLaunch(args)
	if err != nil {
		return err
	}

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

	runCfg := runtimeConfig()
	game, err := env.NewGame(launch, runCfg)
	if err != nil {
		return fmt.Errorf("cannot start level: %w", err)
	}

	opts := tui.GameOptions{
		HoldWindow: cfg.Input.HoldWindow(),
		Logger:     logger,
	}
	if env.Sound != nil {
		opts.Sound = env.Sound
	}

	if err := tui.Run(game, runCfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		return err
	}
	return nil
}
