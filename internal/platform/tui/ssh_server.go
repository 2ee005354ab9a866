package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/replay"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.snake/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// RecordDir enables replay recording of every session when set.
	RecordDir string
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves the game over SSH. All connections share one
// high-score table and one session registry.
type SSHServer struct {
	config    SSHServerConfig
	server    *ssh.Server
	persister *storage.Persister
	registry  *registry.Registry
	logger    *log.Logger

	mu      sync.RWMutex
	gameCfg config.SnakeConfig
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, gameCfg config.SnakeConfig, persister *storage.Persister, reg *registry.Registry, logger *log.Logger) (*SSHServer, error) {
	srv := &SSHServer{
		config:    cfg,
		persister: persister,
		registry:  reg,
		logger:    logger,
		gameCfg:   gameCfg,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".snake", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middlewares run last to first: the logger wraps the program.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// SetGameConfig replaces the config used for new connections.
func (s *SSHServer) SetGameConfig(cfg config.SnakeConfig) {
	s.mu.Lock()
	s.gameCfg = cfg
	s.mu.Unlock()
}

func (s *SSHServer) currentGameConfig() config.SnakeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameCfg
}

// sessionKey is the context key holding the registry ID of a connection.
type sessionKey struct{}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	id, _ := sshSession.Context().Value(sessionKey{}).(string)
	opts := Options{
		Config:    s.currentGameConfig(),
		Ledger:    s.persister.Ledger(),
		Persister: s.persister,
		Registry:  s.registry,
		Logger:    s.logger.With("user", sshSession.User()),
		Runtime: core.RuntimeConfig{
			ScreenW: pty.Window.Width,
			ScreenH: pty.Window.Height,
			Seed:    time.Now().UnixNano(),
		},
		SessionID: id,
		Player:    sshSession.User(),
		Origin:    "ssh",
	}
	if s.config.RecordDir != "" {
		opts.Recorder = replay.NewRecorder(s.config.RecordDir)
	}

	model, err := NewModel(opts)
	if err != nil {
		s.logger.Error("cannot start session", "user", sshSession.User(), "err", err)
		wish.Fatalln(sshSession, "cannot start game:", err)
		return nil, nil
	}

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events and unregisters the session
// once the program has exited.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := registry.NewID()
		sshSession.Context().SetValue(sessionKey{}, id)

		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"id", id,
		)
		next(sshSession)
		s.registry.Unregister(id)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"id", id,
		)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down SSH server")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
