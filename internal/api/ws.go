package api

import (
	"net/http"
	"time"

	"github.com/Veraticus/creditbook/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	feedBuffer   = 16
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Feed handles GET /v1/ws. The client receives the current snapshot, then a
// new one after every change. Snapshots a slow client cannot keep up with
// are dropped; the next one carries the full state anyway.
func (s *Server) Feed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	updates, unsubscribe := s.store.Subscribe(feedBuffer)
	defer unsubscribe()

	// Reads only detect the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	current := s.store.Snapshot()
	if err := s.writeSnapshot(conn, current); err != nil {
		return
	}
	sent := current.Version

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-closed:
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			// Racing writers can publish out of order.
			if snap.Version <= sent {
				continue
			}
			if err := s.writeSnapshot(conn, snap); err != nil {
				s.logger.Debug("WebSocket client dropped", "error", err)
				return
			}
			sent = snap.Version
		}
	}
}

func (s *Server) writeSnapshot(conn *websocket.Conn, snap model.Snapshot) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(snap)
}
