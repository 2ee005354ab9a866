package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/game"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
)

// Event is one websocket message sent to spectators.
type Event struct {
	Type     string         `json:"type"` // "frame" or "closed"
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
}

// handleWatch streams a session's snapshots until it ends or the
// spectator disconnects.
func (s *Server) handleWatch(c *gin.Context) {
	id := c.Param("id")
	updates, cancel, err := s.registry.Subscribe(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	defer cancel()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "id", id, "err", err)
		return
	}
	defer conn.Close()

	s.logger.Debug("spectator joined", "id", id, "remote", conn.RemoteAddr().String())

	// Spectators never send anything meaningful; reading only notices the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				if err := sendClosed(conn); err != nil {
					s.logger.Debug("spectator close failed", "id", id, "err", err)
				}
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(Event{Type: "frame", Snapshot: &snap}); err != nil {
				s.logger.Debug("spectator write failed", "id", id, "err", err)
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			s.logger.Debug("spectator left", "id", id)
			return
		}
	}
}

// sendClosed tells the spectator the session ended and closes the socket
// cleanly.
func sendClosed(conn *websocket.Conn) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := conn.WriteJSON(Event{Type: "closed"}); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
}
