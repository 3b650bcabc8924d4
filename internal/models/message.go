package models

import "time"

// Message is a persisted chat line of a mood room. Messages are never mutated.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    string    `gorm:"size:20;index;not null" json:"roomId"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	User      string    `gorm:"column:user_name;size:30;not null" json:"user"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Time      string    `gorm:"size:50" json:"time"`
	CreatedAt time.Time `json:"-"`
}

// MessageView is a message as delivered to clients, with the author's stored avatar.
type MessageView struct {
	ID     uint    `json:"id"`
	RoomID string  `json:"roomId"`
	UserID uint    `json:"userId"`
	User   string  `json:"user"`
	Text   string  `json:"text"`
	Time   string  `json:"time"`
	Avatar *string `json:"avatar"`
}

// View converts a stored message into its client representation.
func (m *Message) View(avatar *string) MessageView {
	return MessageView{
		ID:     m.ID,
		RoomID: m.RoomID,
		UserID: m.UserID,
		User:   m.User,
		Text:   m.Text,
		Time:   m.Time,
		Avatar: avatar,
	}
}
