// Package broker fans notifications out across service instances over
// Redis pub/sub, so each instance can deliver to its own WebSocket clients.
package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"back2u-backend/internal/config"
	"back2u-backend/internal/models"
	"back2u-backend/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisBroker publishes notifications to a Redis channel
type RedisBroker struct {
	client  *redis.Client
	channel string
}

var _ services.Publisher = (*RedisBroker)(nil)

// NewRedisBroker connects to Redis and verifies the connection
func NewRedisBroker(ctx context.Context, cfg config.RedisConfig) (*RedisBroker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisBroker{client: client, channel: cfg.Channel}, nil
}

// Publish sends n to every subscribed instance
func (b *RedisBroker) Publish(ctx context.Context, n *models.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Subscribe hands every notification published on the channel to local
// until ctx is cancelled.
func (b *RedisBroker) Subscribe(ctx context.Context, local services.Publisher) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}
	log.Info().Str("channel", b.channel).Msg("Subscribed to notification channel")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var n models.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				log.Error().Err(err).Msg("Failed to decode published notification")
				continue
			}
			if err := local.Publish(ctx, &n); err != nil {
				log.Error().
					Err(err).
					Str("notification_id", n.ID).
					Msg("Failed to deliver notification")
			}
		}
	}
}

// Close closes the Redis client
func (b *RedisBroker) Close() error {
	return b.client.Close()
}
