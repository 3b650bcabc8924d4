package storage

import (
	"context"
	"fmt"
	"moodmingle/backend/internal/models"
	"time"

	"gorm.io/gorm/clause"
)

// UpsertHeart inserts a heart or, when the pair already has one, refreshes its
// timestamp and marks it unread again. There is never more than one row per pair.
func (s *Service) UpsertHeart(ctx context.Context, senderID, receiverID uint) (*models.HeartNotification, error) {
	now := time.Now().UTC()
	heart := models.HeartNotification{
		SenderID:   senderID,
		ReceiverID: receiverID,
		CreatedAt:  now,
	}

	db := s.DB.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sender_id"}, {Name: "receiver_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"created_at": now,
			"is_read":    false,
		}),
	}).Create(&heart).Error
	if err != nil {
		return nil, fmt.Errorf("upsert heart %d->%d: %w", senderID, receiverID, err)
	}

	// Після ON CONFLICT id у структурі може бути неточним, тому перечитуємо рядок.
	var stored models.HeartNotification
	if err := db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).Take(&stored).Error; err != nil {
		return nil, fmt.Errorf("reload heart %d->%d: %w", senderID, receiverID, err)
	}
	return &stored, nil
}

// ListHearts returns a receiver's most recent hearts, newest first, with sender display data.
func (s *Service) ListHearts(ctx context.Context, receiverID uint, limit int) ([]models.HeartView, error) {
	hearts := []models.HeartView{}
	err := s.DB.WithContext(ctx).
		Table("heart_notifications AS h").
		Select("h.id, h.sender_id, u.username AS sender_username, u.avatar AS sender_avatar, h.is_read, h.created_at").
		Joins("LEFT JOIN users u ON u.id = h.sender_id").
		Where("h.receiver_id = ?", receiverID).
		Order("h.created_at DESC, h.id DESC").
		Limit(limit).
		Scan(&hearts).Error
	if err != nil {
		return nil, fmt.Errorf("list hearts for %d: %w", receiverID, err)
	}
	return hearts, nil
}

func (s *Service) MarkHeartsRead(ctx context.Context, receiverID uint) (int64, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.HeartNotification{}).
		Where("receiver_id = ?", receiverID).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark hearts read for %d: %w", receiverID, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Service) ClearHearts(ctx context.Context, receiverID uint) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Delete(&models.HeartNotification{})
	if res.Error != nil {
		return 0, fmt.Errorf("clear hearts for %d: %w", receiverID, res.Error)
	}
	return res.RowsAffected, nil
}
