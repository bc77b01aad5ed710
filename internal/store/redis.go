package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aid-safeguard/tracking/internal/config"
	"aid-safeguard/tracking/internal/domain"
)

// UpdatesChannel carries every accepted truck snapshot for live consumers.
const UpdatesChannel = "tracking:updates"

// RedisCache mirrors current truck state for fast reads. It is a disposable
// projection: a failed write here must never fail the request that caused it.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(ctx context.Context, cfg *config.Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     20,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{
		client: client,
		ttl:    time.Duration(cfg.CacheTTLSeconds) * time.Second,
	}, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Put stores the truck snapshot under truck:<truckID> and publishes it on the
// updates channel in one round trip.
func (c *RedisCache) Put(ctx context.Context, truckID string, truck domain.Truck) error {
	payload, err := json.Marshal(truck)
	if err != nil {
		return fmt.Errorf("failed to marshal truck state: %w", err)
	}

	key := fmt.Sprintf("truck:%s", truckID)

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, payload, c.ttl)
	pipe.Publish(ctx, UpdatesChannel, payload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed for %s: %w", truckID, err)
	}
	return nil
}

// Subscribe opens a subscription on the updates channel for live feeds.
func (c *RedisCache) Subscribe(ctx context.Context) *redis.PubSub {
	return c.client.Subscribe(ctx, UpdatesChannel)
}
