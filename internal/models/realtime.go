package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Inbound realtime events.
const (
	EventJoinRoom    = "join_room"
	EventTypingStart = "typing_start"
	EventTypingStop  = "typing_stop"
	EventSendMessage = "send_message"
	EventSendHeart   = "send_heart"
)

// Outbound realtime events.
const (
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
	EventReceiveMessage    = "receive_message"
	EventUserLeft          = "user_left"
	EventError             = "error"
	EventHeartSent         = "heart_sent"
)

// User-scoped channel prefixes. The receiver id is appended.
const (
	ChannelHeartNotification   = "heart_notification_"
	ChannelPrivateChatRequest  = "private_chat_request_"
	ChannelPrivateChatAccepted = "private_chat_accepted_"
	ChannelPrivateChatRejected = "private_chat_rejected_"
)

// UserChannel builds the event name of a user-scoped channel.
func UserChannel(prefix string, userID uint) string {
	return fmt.Sprintf("%s%d", prefix, userID)
}

// Envelope is an outbound realtime frame.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// InboundEnvelope is a realtime frame as received from a client; Data is decoded per event.
type InboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// UserNotification addresses an envelope to every connection bound to a user id.
type UserNotification struct {
	UserID   uint     `json:"userId"`
	Envelope Envelope `json:"envelope"`
}

// JoinRoomPayload is the object form of join_room. The bare string form is handled by the decoder.
type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
	UserID any    `json:"userId"`
}

// TypingPayload is forwarded verbatim, so the user fields stay raw.
type TypingPayload struct {
	RoomID   string          `json:"roomId"`
	UserID   json.RawMessage `json:"userId,omitempty"`
	Username json.RawMessage `json:"username,omitempty"`
}

// TypingBroadcast is what other room members receive for typing events.
type TypingBroadcast struct {
	UserID   json.RawMessage `json:"userId,omitempty"`
	Username json.RawMessage `json:"username,omitempty"`
}

// SendMessagePayload keeps the validated fields loosely typed; validators coerce them.
type SendMessagePayload struct {
	RoomID any `json:"roomId"`
	UserID any `json:"userId"`
	User   any `json:"user"`
	Text   any `json:"text"`
	Time   any `json:"time"`
}

// HeartPayload is used by both send_heart and POST /api/heart.
type HeartPayload struct {
	SenderID   any `json:"senderId"`
	ReceiverID any `json:"receiverId"`
}

// HeartSent confirms a heart to its sender's socket.
type HeartSent struct {
	ReceiverID uint `json:"receiverId"`
	Success    bool `json:"success"`
}

// UserLeft is broadcast to the last room of a disconnecting connection.
type UserLeft struct {
	UserID *uint `json:"userId"`
}

// ErrorPayload carries a human readable failure back to one socket.
type ErrorPayload struct {
	Message string `json:"message"`
}

// HeartNotificationPayload is delivered on heart_notification_<receiverId>.
type HeartNotificationPayload struct {
	ID             uint      `json:"id"`
	Type           string    `json:"type"`
	SenderID       uint      `json:"senderId"`
	SenderUsername string    `json:"senderUsername"`
	SenderAvatar   *string   `json:"senderAvatar"`
	ReceiverID     uint      `json:"receiverId"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
	IsRead         bool      `json:"isRead"`
}

// ChatRequestNotification is delivered on private_chat_request_<requestedId>.
type ChatRequestNotification struct {
	Type              string    `json:"type"`
	RequestID         uint      `json:"requestId"`
	RequesterID       uint      `json:"requesterId"`
	RequesterUsername string    `json:"requesterUsername"`
	RequesterAvatar   *string   `json:"requesterAvatar"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ChatAcceptedNotification is delivered to both participants.
type ChatAcceptedNotification struct {
	Type          string `json:"type"`
	RequestID     uint   `json:"requestId"`
	RoomID        string `json:"roomId"`
	OtherUserID   uint   `json:"otherUserId"`
	OtherUsername string `json:"otherUsername"`
}

// ChatRejectedNotification is delivered to the requester only.
type ChatRejectedNotification struct {
	Type              string `json:"type"`
	RequestID         uint   `json:"requestId"`
	RequestedID       uint   `json:"requestedId"`
	RequestedUsername string `json:"requestedUsername"`
}
