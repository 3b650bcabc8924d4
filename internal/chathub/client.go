package chathub

import (
	"context"
	"moodmingle/backend/internal/models"
)

// Client is one live realtime connection. It abstracts the transport so the hub
// can manage WebSocket clients and in-memory test clients uniformly.
type Client interface {
	// GetID returns the connection id, unique per socket.
	GetID() string
	// Session returns the per-connection state owned by this connection.
	Session() *Session

	// GetSendChannel returns the channel the hub writes outbound envelopes to.
	// The hub never blocks on it: a full channel drops the client.
	GetSendChannel() chan<- models.Envelope

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the send side. It is called exactly once, by the hub.
	Close()
}

// HeartSender handles send_heart for the hub.
type HeartSender interface {
	SendHeart(ctx context.Context, p models.HeartPayload) (*models.HeartNotification, error)
}
