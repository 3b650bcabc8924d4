package storage

import (
	"context"
	"fmt"
	"moodmingle/backend/internal/models"
)

// SaveMessage зберігає повідомлення; msg.ID is filled by gorm.
func (s *Service) SaveMessage(ctx context.Context, msg *models.Message) error {
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("save message for room %s: %w", msg.RoomID, err)
	}
	return nil
}

type historyRow struct {
	ID     uint
	RoomID string
	UserID uint
	Author string
	Text   string
	Time   string
	Avatar *string
}

// GetRoomHistory returns a room's messages in id order with each author's current avatar.
func (s *Service) GetRoomHistory(ctx context.Context, roomID string) ([]models.MessageView, error) {
	var rows []historyRow
	err := s.DB.WithContext(ctx).
		Table("messages AS m").
		Select("m.id, m.room_id, m.user_id, m.user_name AS author, m.text, m.time, u.avatar").
		Joins("LEFT JOIN users u ON u.id = m.user_id").
		Where("m.room_id = ?", roomID).
		Order("m.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get history for room %s: %w", roomID, err)
	}

	history := make([]models.MessageView, 0, len(rows))
	for _, r := range rows {
		history = append(history, models.MessageView{
			ID:     r.ID,
			RoomID: r.RoomID,
			UserID: r.UserID,
			User:   r.Author,
			Text:   r.Text,
			Time:   r.Time,
			Avatar: r.Avatar,
		})
	}
	return history, nil
}
