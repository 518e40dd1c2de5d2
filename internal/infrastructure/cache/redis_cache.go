package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

const keyPrefix = "fakenews:prediction:"

// RedisCache stores serialized prediction results with a TTL. Keys embed the
// model version, so a model swap starts from an empty key space.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.PredictionCache = (*RedisCache)(nil)

// NewRedisCache wires a connected client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL, falling back to a plain address, and pings the server.
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		opt = &redis.Options{Addr: rawURL}
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Get returns the cached result for key, if any.
func (c *RedisCache) Get(ctx context.Context, key string) (domain.PredictionResult, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PredictionResult{}, false, nil
	}
	if err != nil {
		return domain.PredictionResult{}, false, fmt.Errorf("get cached prediction: %w", err)
	}

	var result domain.PredictionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return domain.PredictionResult{}, false, fmt.Errorf("decode cached prediction: %w", err)
	}
	return result, true, nil
}

// Set stores result under key.
func (c *RedisCache) Set(ctx context.Context, key string, result domain.PredictionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("store prediction: %w", err)
	}
	return nil
}
