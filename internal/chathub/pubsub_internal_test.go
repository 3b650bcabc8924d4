package chathub

import (
	"context"
	"encoding/json"
	"moodmingle/backend/internal/models"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForward_DecodesAndSkipsMalformed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan *redis.Message, 4)
	out := make(chan models.UserNotification, 4)
	done := make(chan struct{})
	go func() {
		forward(ctx, in, out, zerolog.Nop())
		close(done)
	}()

	payload, err := json.Marshal(models.UserNotification{
		UserID:   9,
		Envelope: models.Envelope{Event: "heart_notification_9", Data: map[string]any{"type": "heart"}},
	})
	require.NoError(t, err)

	in <- &redis.Message{Channel: NotificationsChannel, Payload: "{not json"}
	in <- &redis.Message{Channel: NotificationsChannel, Payload: string(payload)}

	select {
	case n := <-out:
		assert.Equal(t, uint(9), n.UserID)
		assert.Equal(t, "heart_notification_9", n.Envelope.Event)
		assert.Equal(t, map[string]any{"type": "heart"}, n.Envelope.Data)
	case <-time.After(time.Second):
		t.Fatal("notification was not forwarded")
	}
	assert.Empty(t, out, "the malformed payload is dropped")

	close(in)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward did not stop when the subscription closed")
	}
}

func TestForward_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		forward(ctx, make(chan *redis.Message), make(chan models.UserNotification), zerolog.Nop())
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward did not stop on cancel")
	}
}
