package handler

import (
	"moodmingle/backend/internal/chathub"
	"moodmingle/backend/internal/validation"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
}

// checkOrigin accepts same-origin tools (no Origin header) and the configured frontend.
// Any origin is accepted in development.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || h.devMode || origin == h.frontendURL
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket.
// An optional ?userId= binds the connection to that user's notification channels
// before any room is joined.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	var channelUser uint
	if raw := c.Query("userId"); raw != "" {
		if id, err := validation.UserID(raw); err == nil {
			channelUser = id
		}
	}

	up := h.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.log.Debug().Err(err).Str("origin", c.GetHeader("Origin")).Msg("websocket upgrade failed")
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, conn, channelUser)
	h.Hub.Register(client)
	client.Run()
}
