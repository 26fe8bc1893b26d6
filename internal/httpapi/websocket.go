package httpapi

import (
	"log/slog"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/reliefline/server/internal/metrics"
)

const wsPingInterval = 30 * time.Second

// WebSocketHandler returns a handler that upgrades to WebSocket and pushes
// every profile snapshot to the client. On connect the client immediately
// receives the latest snapshot, so it never has to poll to catch up.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)
		defer slog.Info("ws client disconnected", "remote", remoteAddr)

		snapshots, cancel := deps.Profiles.Subscribe()
		defer cancel()

		// Reader goroutine: we never expect client messages, but reading is
		// what surfaces the close frame.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := c.WriteJSON(deps.Profiles.Latest()); err != nil {
			return
		}

		// Single-writer loop: snapshots and pings share one goroutine so no
		// write mutex is needed.
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				if err := c.WriteJSON(snap); err != nil {
					return
				}
			case <-ticker.C:
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
