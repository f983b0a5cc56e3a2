package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heli/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the heli SSH server",
	Long: `Start an SSH server that lets users connect and fly.

Each SSH connection gets its own session with the level select menu.
Progress and the best score are kept per SSH user name; the run
leaderboard is shared by everyone on the server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.heli/host_key

Examples:
  heli serve                           # Listen on :23234 with auto-generated key
  heli serve --ssh :2222               # Listen on port 2222
  heli serve --host-key ./my_host_key  # Use specific host key
  heli serve --db ./heli.db            # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	heliCfg, catalog, err := loadGameData()
	if err != nil {
		return err
	}

	// The server owns no terminal UI, so it logs to stderr.
	logger, closeLog := newLogger(false)
	defer closeLog()

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Heli:        heliCfg,
		Catalog:     catalog,
		Theme:       tui.DefaultTheme(),
		Logger:      logger.WithPrefix("heli-ssh"),
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Starting heli SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
