// Package realtime fans live ride data out to subscribers over Redis pub/sub.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PositionChannel is the pub/sub channel carrying a ride's position stream.
func PositionChannel(rideID uuid.UUID) string {
	return "ride:" + rideID.String() + ":positions"
}

// NewClient connects to Redis and pings it with a short timeout.
func NewClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}

type RedisBroadcaster struct {
	client redis.UniversalClient
}

func NewRedisBroadcaster(client redis.UniversalClient) *RedisBroadcaster {
	return &RedisBroadcaster{client: client}
}

// Broadcast publishes v as JSON on the ride's position channel.
func (b *RedisBroadcaster) Broadcast(ctx context.Context, rideID uuid.UUID, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal position: %w", err)
	}
	if err := b.client.Publish(ctx, PositionChannel(rideID), body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", PositionChannel(rideID), err)
	}
	return nil
}

// Nop drops every message. Used when Redis is not configured.
type Nop struct{}

func (Nop) Broadcast(context.Context, uuid.UUID, any) error { return nil }
