package social

import (
	"context"
	"fmt"
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/config"
	"moodmingle/backend/internal/metrics"
	"moodmingle/backend/internal/models"
	"moodmingle/backend/internal/validation"
)

const msgHeartFailed = "Failed to send heart"

// SendHeart upserts the (sender, receiver) heart and notifies the receiver's channel.
func (s *Service) SendHeart(ctx context.Context, p models.HeartPayload) (*models.HeartNotification, error) {
	senderID, err := validation.UserID(p.SenderID)
	if err != nil {
		return nil, err
	}
	receiverID, err := validation.UserID(p.ReceiverID)
	if err != nil {
		return nil, err
	}
	if senderID == receiverID {
		return nil, common.Validation("Cannot send heart to yourself")
	}

	heart, err := s.store.UpsertHeart(ctx, senderID, receiverID)
	if err != nil {
		return nil, common.Internal(msgHeartFailed, err)
	}
	metrics.HeartsSent.Inc()

	sender, receiver := s.resolvePair(ctx, senderID, receiverID)
	senderName := nameOf(sender)

	s.notifier.NotifyUser(receiverID, models.UserChannel(models.ChannelHeartNotification, receiverID), models.HeartNotificationPayload{
		ID:             heart.ID,
		Type:           "heart",
		SenderID:       senderID,
		SenderUsername: senderName,
		SenderAvatar:   avatarOf(sender),
		ReceiverID:     receiverID,
		Message:        fmt.Sprintf("%s sent you a heart ❤️", senderName),
		CreatedAt:      heart.CreatedAt,
		IsRead:         heart.IsRead,
	})

	s.log.Debug().
		Uint("sender_id", senderID).
		Str("sender", senderName).
		Uint("receiver_id", receiverID).
		Str("receiver", nameOf(receiver)).
		Msg("heart sent")
	return heart, nil
}

// ListHearts returns up to 20 of a user's hearts, newest first.
func (s *Service) ListHearts(ctx context.Context, rawUserID any) ([]models.HeartView, error) {
	userID, err := validation.UserID(rawUserID)
	if err != nil {
		return nil, err
	}
	hearts, err := s.store.ListHearts(ctx, userID, config.HeartListLimit)
	if err != nil {
		return nil, common.Internal("Failed to fetch hearts", err)
	}
	return hearts, nil
}

func (s *Service) MarkHeartsRead(ctx context.Context, rawUserID any) (int64, error) {
	userID, err := validation.UserID(rawUserID)
	if err != nil {
		return 0, err
	}
	n, err := s.store.MarkHeartsRead(ctx, userID)
	if err != nil {
		return 0, common.Internal("Failed to mark hearts as read", err)
	}
	return n, nil
}

func (s *Service) ClearHearts(ctx context.Context, rawUserID any) (int64, error) {
	userID, err := validation.UserID(rawUserID)
	if err != nil {
		return 0, err
	}
	n, err := s.store.ClearHearts(ctx, userID)
	if err != nil {
		return 0, common.Internal("Failed to clear hearts", err)
	}
	return n, nil
}
