package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakes-foxes/internal/platform/tui"
	"github.com/vovakirdan/snakes-foxes/internal/registry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server where every connection gets its own menu.

Connected players can play hot-seat games, or host a lobby and hand its
six-symbol code to someone on another connection to play an online match.
Results of both kinds go to the server's database.

Without --host-key the server generates a key at
$XDG_DATA_HOME/snakes-foxes/host_key on first start and reuses it after.

Examples:
  foxes serve
  foxes serve --ssh :2222 --idle-timeout 10
  foxes serve --host-key ./host_key --db ./results.db

Players connect with:
  ssh -p 23234 <host>`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
	}

	server, err := tui.NewSSHServer(cfg, gameCfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	logger.Info("listening", "address", server.Addr(), "variants", len(registry.List()))
	fmt.Fprintf(os.Stderr, "ssh -p %s localhost  (Ctrl+C stops the server)\n", portOf(server.Addr()))
	return server.ListenAndServe()
}

// portOf returns the port of a listen address, or the address itself when
// it has none.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
