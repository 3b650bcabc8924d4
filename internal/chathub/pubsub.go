package chathub

import (
	"context"
	"encoding/json"
	"fmt"
	"moodmingle/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NotificationsChannel is the redis channel user notifications travel on.
const NotificationsChannel = "moodmingle:user_notifications"

// RedisRelay fans user notifications out through redis pub/sub, so a user
// connected to any instance receives them.
type RedisRelay struct {
	rdb     *redis.Client
	channel string
}

func NewRedisRelay(rdb *redis.Client) *RedisRelay {
	return &RedisRelay{rdb: rdb, channel: NotificationsChannel}
}

// Publish sends one notification to every subscribed instance, this one included.
func (r *RedisRelay) Publish(ctx context.Context, n models.UserNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	return r.rdb.Publish(ctx, r.channel, payload).Err()
}

// Listen forwards relayed notifications to out until ctx is cancelled.
func (r *RedisRelay) Listen(ctx context.Context, out chan<- models.UserNotification, log zerolog.Logger) {
	pubsub := r.rdb.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	forward(ctx, pubsub.Channel(), out, log)
}

// forward decodes relayed payloads into out. Malformed payloads are skipped.
func forward(ctx context.Context, in <-chan *redis.Message, out chan<- models.UserNotification, log zerolog.Logger) {
	for {
		select {
		case msg, ok := <-in:
			if !ok {
				return
			}
			var n models.UserNotification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				log.Warn().Err(err).Msg("malformed relayed notification")
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
