package chathub

import (
	"encoding/json"
	"moodmingle/backend/internal/config"
	"moodmingle/backend/internal/models"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = config.WSWriteWait
	pongWait       = config.WSPongWait
	pingPeriod     = config.WSPingPeriod
	maxMessageSize = config.WSMaxMessageSize
)

// WebSocketClient реалізує інтерфейс chathub.Client
type WebSocketClient struct {
	ID   string
	Conn *websocket.Conn
	Hub  *ManagerService
	Send chan models.Envelope

	session   *Session
	closeOnce sync.Once
}

// NewWebSocketClient wraps an upgraded connection. channelUser binds the
// connection to that user's notification channels from the start (0 for none).
func NewWebSocketClient(hub *ManagerService, conn *websocket.Conn, channelUser uint) *WebSocketClient {
	return &WebSocketClient{
		ID:      uuid.New().String(),
		Conn:    conn,
		Hub:     hub,
		Send:    make(chan models.Envelope, config.WSSendBuffer),
		session: NewSession(channelUser),
	}
}

func (c *WebSocketClient) GetID() string                          { return c.ID }
func (c *WebSocketClient) Session() *Session                      { return c.session }
func (c *WebSocketClient) GetSendChannel() chan<- models.Envelope { return c.Send }

// Run запускає 'pumps' для WebSocket
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close закриває Send канал (що зупинить writePump)
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// readPump decodes inbound frames and hands them to the hub one at a time.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.disconnect(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ctx := c.Hub.Context()
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn().Err(err).Str("conn_id", c.ID).Msg("unexpected websocket close")
			}
			break
		}

		var env models.InboundEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.Hub.log.Debug().Err(err).Str("conn_id", c.ID).Msg("skipping malformed frame")
			continue
		}

		c.Hub.HandleEvent(ctx, c, env)
	}
}

// writePump writes one JSON envelope per frame and keeps the connection alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Канал закрито хабом, закриваємо з'єднання WS
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(env); err != nil {
				c.Hub.log.Debug().Err(err).Str("conn_id", c.ID).Msg("write failed")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
