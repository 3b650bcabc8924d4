package models

import (
	"fmt"
	"time"
)

// HeartNotification is unique per ordered (sender, receiver) pair.
// Re-sending refreshes CreatedAt and resets IsRead instead of adding a row.
type HeartNotification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"uniqueIndex:idx_heart_pair;not null" json:"senderId"`
	ReceiverID uint      `gorm:"uniqueIndex:idx_heart_pair;index;not null" json:"receiverId"`
	IsRead     bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HeartView is a heart joined with the sender's display data.
type HeartView struct {
	ID             uint      `json:"id"`
	SenderID       uint      `json:"senderId"`
	SenderUsername *string   `json:"senderUsername"`
	SenderAvatar   *string   `json:"senderAvatar"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ChatRequestStatus is the state of a PrivateChatRequest.
type ChatRequestStatus string

const (
	ChatRequestPending  ChatRequestStatus = "pending"
	ChatRequestAccepted ChatRequestStatus = "accepted"
	ChatRequestRejected ChatRequestStatus = "rejected"
)

// PrivateChatRequest is unique per ordered (requester, requested) pair.
type PrivateChatRequest struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	RequesterID uint              `gorm:"uniqueIndex:idx_chat_request_pair;not null" json:"requesterId"`
	RequestedID uint              `gorm:"uniqueIndex:idx_chat_request_pair;index;not null" json:"requestedId"`
	Status      ChatRequestStatus `gorm:"size:10;not null;default:pending;index" json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	RespondedAt *time.Time        `json:"respondedAt,omitempty"`
}

// ChatRequestView is a pending request joined with the requester's display data.
type ChatRequestView struct {
	ID                uint      `json:"id"`
	RequesterID       uint      `json:"requesterId"`
	RequesterUsername *string   `json:"requesterUsername"`
	RequesterAvatar   *string   `json:"requesterAvatar"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

// PrivateChatRoom is created once per accepted pair. Name is derived from both ids.
type PrivateChatRoom struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	User1ID   uint      `gorm:"index;not null" json:"user1Id"`
	User2ID   uint      `gorm:"index;not null" json:"user2Id"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// PrivateRoomName returns the deterministic room name for a pair, independent of order.
func PrivateRoomName(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("private_%d_%d", a, b)
}
