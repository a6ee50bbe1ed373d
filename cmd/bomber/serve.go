package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tuigames/tui-bomber/internal/config"
	"github.com/tuigames/tui-bomber/internal/platform/tui"
)

var (
	flagServeConfig string
	flagSSHAddr     string
	flagHostKey     string
	flagSSHDBPath   string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bomber SSH server",
	Long: `Start an SSH server that lets users connect and play matches.

Each SSH connection gets its own session with the menu, local matches
and online PvP pairing. Results are stored per-server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.bomber/host_key

Examples:
  bomber serve                           # Listen on :23234 with auto-generated key
  bomber serve --ssh :2222               # Listen on port 2222
  bomber serve --host-key ./my_host_key  # Use specific host key
  bomber serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeConfig, "config", "", "Path to custom config YAML")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagSSHDBPath, "db", "", "Path to match database")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	fileCfg, err := config.Load(flagServeConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	config.Normalize(&fileCfg)
	applyMatchConfig(fileCfg)

	// Flags override the config file
	srvCfg := fileCfg.Server
	if flagSSHAddr != "" {
		srvCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKeyPath = flagHostKey
	}
	if flagSSHDBPath != "" {
		srvCfg.DBPath = flagSSHDBPath
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleTimeoutMins = flagIdleTimeout
	}

	cfg := tui.SSHServerConfig{
		Address:     srvCfg.Address,
		HostKeyPath: srvCfg.HostKeyPath,
		DBPath:      srvCfg.DBPath,
		IdleTimeout: time.Duration(srvCfg.IdleTimeoutMins) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting bomber SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
