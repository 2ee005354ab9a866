package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/platform/web"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
	flagServeRecord string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the snake SSH server and status page",
	Long: `Start an SSH server that lets users connect and play, plus an HTTP
status page listing live sessions.

Each SSH connection gets its own game. All players share one high-score
table. Spectators can follow any live session over a websocket at
/ws/sessions/<id>.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.snake/host_key

Examples:
  snake serve                           # SSH on :23234, status on :8080
  snake serve --ssh :2222               # Listen on port 2222
  snake serve --http ""                 # SSH only
  snake serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "Status server address; empty disables it")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeRecord, "record", "", "Directory for parquet replays of every game")
}

func runServe(_ *cobra.Command, _ []string) {
	logger, err := newLogger(os.Stderr, "snake")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, persister, err := openScores(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	reg := registry.New()

	sshCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		RecordDir:   flagServeRecord,
	}
	sshServer, err := tui.NewSSHServer(sshCfg, cfg, persister, reg, logger.WithPrefix("ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting snake SSH server on %s\n", sshCfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(sshCfg.Address))
	if flagHTTPAddr != "" {
		fmt.Printf("Status page on http://localhost:%s/api/status\n", portOf(flagHTTPAddr))
	}
	fmt.Println("Press Ctrl+C to stop")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sshServer.ListenAndServe(gctx) })

	if flagHTTPAddr != "" {
		webCfg := web.DefaultConfig()
		webCfg.Address = flagHTTPAddr
		webServer := web.New(webCfg, reg, persister, logger.WithPrefix("web"))
		g.Go(func() error { return webServer.ListenAndServe(gctx) })
	}

	if cfgPath != "" {
		watcher, err := config.NewWatcher(cfgPath)
		if err != nil {
			logger.Warn("config hot reload disabled", "err", err)
		} else {
			go watcher.Run(gctx, func(next config.SnakeConfig, err error) {
				if err != nil {
					logger.Warn("config reload failed", "err", err)
					return
				}
				sshServer.SetGameConfig(next)
				logger.Info("config reloaded; new connections use it", "path", cfgPath)
			})
		}
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
