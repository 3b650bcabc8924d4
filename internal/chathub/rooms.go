package chathub

import (
	"context"
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/metrics"
	"moodmingle/backend/internal/models"
	"moodmingle/backend/internal/validation"
)

const msgSendFailed = "Failed to send message"

// SendMessage validates, persists and then broadcasts a chat message to every
// member of its mood room, the sender included, so clients render their own
// messages from the server echo.
func (m *ManagerService) SendMessage(ctx context.Context, c Client, p models.SendMessagePayload) {
	text, err := validation.MessageText(p.Text)
	if err != nil {
		m.sendError(c, models.EventSendMessage, err, msgSendFailed)
		return
	}
	userID, err := validation.UserID(p.UserID)
	if err != nil {
		m.sendError(c, models.EventSendMessage, err, msgSendFailed)
		return
	}
	roomID, err := validation.MoodID(p.RoomID)
	if err != nil {
		m.sendError(c, models.EventSendMessage, err, msgSendFailed)
		return
	}

	msg := &models.Message{
		RoomID: roomID,
		UserID: userID,
		User:   validation.DisplayName(p.User),
		Text:   text,
		Time:   validation.TimeLabel(p.Time),
	}
	if err := m.Storage.SaveMessage(ctx, msg); err != nil {
		m.sendError(c, models.EventSendMessage, common.Internal(msgSendFailed, err), msgSendFailed)
		return
	}

	m.BroadcastToRoom(roomID, models.Envelope{
		Event: models.EventReceiveMessage,
		Data:  msg.View(m.lookupAvatar(ctx, userID)),
	}, nil)
	metrics.MessagesBroadcast.WithLabelValues(roomID).Inc()
}

// lookupAvatar is best-effort: unknown users and lookup failures yield nil.
func (m *ManagerService) lookupAvatar(ctx context.Context, userID uint) *string {
	info, err := m.Storage.GetUserPublicInfo(ctx, userID)
	if err != nil {
		m.log.Warn().Err(err).Uint("user_id", userID).Msg("avatar lookup failed")
		return nil
	}
	if info == nil || info.Avatar == "" {
		return nil
	}
	avatar := info.Avatar
	return &avatar
}
