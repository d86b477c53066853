package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/rowanhart/tasklist/internal/auth"
)

// Handler upgrades an authenticated request to a WebSocket and runs it as a
// hub client for that user. The access guard runs before this handler, so an
// unauthenticated request never reaches the upgrade.
func Handler(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, id.UserID)
		client.Run(r.Context())
	}
}
