// Package web exposes live sessions and the high-score table over HTTP.
// Spectators can follow a session over a websocket.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// Config holds the HTTP server settings.
type Config struct {
	Address  string
	CellSize int // board.png cell size in pixels
}

// DefaultConfig returns the default status server settings.
func DefaultConfig() Config {
	return Config{Address: ":8080", CellSize: 16}
}

// Server is the status surface.
type Server struct {
	cfg       Config
	registry  *registry.Registry
	persister *storage.Persister
	logger    *log.Logger
	engine    *gin.Engine
	upgrader  websocket.Upgrader
	started   time.Time
}

// New builds the server and its routes. persister may be nil, in which
// case the high-score endpoints report an empty table.
func New(cfg Config, reg *registry.Registry, persister *storage.Persister, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:       cfg,
		registry:  reg,
		persister: persister,
		logger:    logger,
		engine:    gin.New(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		started: time.Now(),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api")
	api.GET("/status", s.handleStatus)
	api.GET("/highscores", s.handleHighScores)
	api.GET("/sessions", s.handleSessions)
	api.GET("/sessions/:id", s.handleSession)
	api.GET("/sessions/:id/board.png", s.handleBoardPNG)

	s.engine.GET("/ws/sessions/:id", s.handleWatch)
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting status server", "address", s.cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down status server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}
