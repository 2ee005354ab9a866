package web

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-snake/internal/game"
	"github.com/vovakirdan/tui-snake/internal/render"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

type statusResponse struct {
	Sessions  int                `json:"sessions"`
	BestScore int                `json:"best_score"`
	Capacity  int                `json:"capacity"`
	Uptime    string             `json:"uptime"`
	Stats     *storage.GameStats `json:"stats,omitempty"`
}

func (s *Server) handleStatus(c *gin.Context) {
	resp := statusResponse{
		Sessions: s.registry.Len(),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	}
	if s.persister != nil {
		ledger := s.persister.Ledger()
		resp.BestScore = ledger.Best()
		resp.Capacity = ledger.Cap()

		if rec, ok := s.persister.Store().(storage.GameRecorder); ok {
			stats, err := rec.Stats(c.Request.Context())
			if err != nil {
				s.logger.Warn("stats unavailable", "err", err)
			} else {
				resp.Stats = &stats
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHighScores(c *gin.Context) {
	entries := []game.HighScoreEntry{}
	if s.persister != nil {
		entries = s.persister.Ledger().Entries()
	}

	type row struct {
		Rank int `json:"rank"`
		game.HighScoreEntry
	}
	rows := make([]row, len(entries))
	for i, e := range entries {
		rows[i] = row{Rank: i + 1, HighScoreEntry: e}
	}
	c.JSON(http.StatusOK, gin.H{"highscores": rows})
}

func (s *Server) handleSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": s.registry.List()})
}

func (s *Server) handleSession(c *gin.Context) {
	info, ok := s.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleBoardPNG(c *gin.Context) {
	info, ok := s.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var buf bytes.Buffer
	opts := render.Options{CellSize: s.cfg.CellSize, HUD: true}
	if err := render.PNG(&buf, info.Snapshot, opts); err != nil {
		s.logger.Error("board render failed", "id", info.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
