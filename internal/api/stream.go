package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// SolvesStreamHandler handles GET /v1/solves/stream: upgrades to a
// WebSocket and pushes every solve lifecycle event as a JSON frame. An
// optional ?type= query filters by event type (solve.completed,
// solve.failed).
func (s *Server) SolvesStreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	want := r.URL.Query().Get("type")
	ch := s.Broker.Subscribe(TopicSolves)
	defer s.Broker.Unsubscribe(TopicSolves, ch)

	conn.SetReadLimit(1 << 16)
	// Drain reads so close frames and pongs are processed; the client is not
	// expected to send anything else.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if want != "" && evt.Type != want {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
