package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-heli/internal/audio"
	"github.com/vovakirdan/tui-heli/internal/config"
	"github.com/vovakirdan/tui-heli/internal/core"
	"github.com/vovakirdan/tui-heli/internal/games/heli"
	"github.com/vovakirdan/tui-heli/internal/levels"
	"github.com/vovakirdan/tui-heli/internal/platform/tui"
	"github.com/vovakirdan/tui-heli/internal/progress"
	"github.com/vovakirdan/tui-heli/internal/storage"
)

const soundVolume = 0.6

// newLogger builds the process logger. While a TUI owns the terminal, logs
// go to a file so they do not tear the screen.
func newLogger(forTUI bool) (*log.Logger, func()) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, using info\n", flagLogLevel)
		level = log.InfoLevel
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}

	if forTUI {
		path := flagLogFile
		if path == "" {
			path = defaultHeliPath("heli.log")
		}
		f, fileErr := openLogFile(path)
		if fileErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", fileErr)
			out = io.Discard
		} else {
			out = f
			closeFn = func() { f.Close() }
		}
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "heli",
	})
	return logger, closeFn
}

func openLogFile(path string) (*os.File, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, path[2:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// defaultHeliPath returns name inside ~/.heli, or name itself when the home
// directory is unknown.
func defaultHeliPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".heli", name)
}

// loadGameData loads tuning with the difficulty preset applied, and the
// chapter catalog.
func loadGameData() (config.HeliConfig, *levels.Catalog, error) {
	cfg, err := config.LoadHeli(flagConfig)
	if err != nil {
		return config.HeliConfig{}, nil, err
	}
	config.ApplyPreset(&cfg, config.ParsePreset(flagDifficulty))

	catalog, err := levels.Load(flagLevels)
	if err != nil {
		return config.HeliConfig{}, nil, err
	}
	return cfg, catalog, nil
}

// openStore opens the database. The game still works without one, so a
// failure only costs persistence.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, progress will not persist", "path", flagDBPath, "err", err)
		return nil
	}
	store.SetLogger(logger)
	return store
}

// newSound opens the speaker when --sound is set.
func newSound(logger *log.Logger) *audio.Player {
	if !flagSound {
		return nil
	}
	if !audio.SpeakerSupported {
		logger.Warn("sound disabled: this build has no speaker support")
		return nil
	}
	p := audio.NewPlayer(soundVolume, logger)
	if err := p.Init(); err != nil {
		logger.Warn("sound disabled", "err", err)
		return nil
	}
	return p
}

// theme honours NO_COLOR.
func theme() tui.Theme {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return tui.MonochromeTheme()
	}
	return tui.DefaultTheme()
}

// newEnv wires the stores of a local player. store may be nil.
func newEnv(cfg config.HeliConfig, catalog *levels.Catalog, store *storage.Store, logger *log.Logger) tui.Env {
	var kv progress.KV = progress.NewMemoryKV()
	deps := heli.Deps{
		Config:  cfg,
		Catalog: catalog,
		Logger:  logger,
	}
	if store != nil {
		kv = store
		deps.Recorder = store
	}

	prog := progress.NewStore(kv, logger)
	deps.Progress = prog
	deps.Best = progress.NewBestScore(kv, logger)

	return tui.Env{
		Heli:     deps,
		Progress: prog,
		Store:    store,
		Sound:    newSound(logger),
		Theme:    theme(),
		Logger:   logger,
	}
}

// runtimeConfig sizes the game to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
