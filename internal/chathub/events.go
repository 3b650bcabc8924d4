package chathub

import (
	"context"
	"encoding/json"
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/metrics"
	"moodmingle/backend/internal/models"
	"moodmingle/backend/internal/validation"
	"strings"
)

const (
	msgInvalidPayload = "Invalid payload"
	msgRoomRequired   = "Room ID is required"
	msgHeartFailed    = "Failed to send heart"
)

// HandleEvent runs one inbound event. It is called from the connection's read
// goroutine, so events of a single connection are handled in arrival order.
// Unknown events are ignored.
func (m *ManagerService) HandleEvent(ctx context.Context, c Client, env models.InboundEnvelope) {
	switch env.Event {
	case models.EventJoinRoom:
		m.handleJoinRoom(c, env.Data)
	case models.EventTypingStart:
		m.handleTyping(c, env.Data, models.EventUserTyping, true)
	case models.EventTypingStop:
		m.handleTyping(c, env.Data, models.EventUserStoppedTyping, false)
	case models.EventSendMessage:
		var p models.SendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			m.sendError(c, env.Event, common.Validation(msgInvalidPayload), "")
			return
		}
		m.SendMessage(ctx, c, p)
	case models.EventSendHeart:
		m.handleSendHeart(ctx, c, env.Data)
	default:
		m.log.Debug().Str("conn_id", c.GetID()).Str("event", env.Event).Msg("ignoring unknown event")
	}
}

func normalizeRoom(roomID string) string {
	return strings.ToLower(strings.TrimSpace(roomID))
}

// handleJoinRoom accepts a bare room id string or {roomId, userId}. The room is
// not validated here; only sending a message requires a mood room.
func (m *ManagerService) handleJoinRoom(c Client, data json.RawMessage) {
	var (
		roomID string
		userID *uint
	)

	if err := json.Unmarshal(data, &roomID); err != nil {
		var p models.JoinRoomPayload
		if err := json.Unmarshal(data, &p); err != nil {
			m.sendError(c, models.EventJoinRoom, common.Validation(msgInvalidPayload), "")
			return
		}
		roomID = p.RoomID
		if id, err := validation.UserID(p.UserID); err == nil {
			userID = &id
		}
	}

	roomID = normalizeRoom(roomID)
	if roomID == "" {
		m.sendError(c, models.EventJoinRoom, common.Validation(msgRoomRequired), "")
		return
	}

	m.JoinRoom(c, roomID, userID)
	m.log.Debug().Str("conn_id", c.GetID()).Str("room", roomID).Msg("joined room")
}

// handleTyping forwards typing state to the other members of the room, unvalidated.
func (m *ManagerService) handleTyping(c Client, data json.RawMessage, outEvent string, withUsername bool) {
	var p models.TypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	roomID := normalizeRoom(p.RoomID)
	if roomID == "" {
		return
	}

	out := models.TypingBroadcast{UserID: p.UserID}
	if withUsername {
		out.Username = p.Username
	}
	m.BroadcastToRoom(roomID, models.Envelope{Event: outEvent, Data: out}, c)
}

func (m *ManagerService) handleSendHeart(ctx context.Context, c Client, data json.RawMessage) {
	var p models.HeartPayload
	if err := json.Unmarshal(data, &p); err != nil {
		m.sendError(c, models.EventSendHeart, common.Validation(msgInvalidPayload), "")
		return
	}
	if m.hearts == nil {
		m.sendError(c, models.EventSendHeart, common.Internal(msgHeartFailed, nil), msgHeartFailed)
		return
	}

	heart, err := m.hearts.SendHeart(ctx, p)
	if err != nil {
		m.sendError(c, models.EventSendHeart, err, msgHeartFailed)
		return
	}
	m.SendTo(c, models.Envelope{
		Event: models.EventHeartSent,
		Data:  models.HeartSent{ReceiverID: heart.ReceiverID, Success: true},
	})
}

// sendError reports a failure to the originating connection only. Internal
// failures are logged with detail and reported with the generic fallback.
func (m *ManagerService) sendError(c Client, event string, err error, fallback string) {
	if common.KindOf(err) == common.KindInternal {
		m.log.Error().Err(err).Str("conn_id", c.GetID()).Str("event", event).Msg("realtime handler failed")
	}
	metrics.RealtimeErrors.WithLabelValues(event).Inc()

	m.SendTo(c, models.Envelope{
		Event: models.EventError,
		Data:  models.ErrorPayload{Message: common.PublicMessage(err, fallback)},
	})
}
