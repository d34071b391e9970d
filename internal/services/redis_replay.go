package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisReplayStore records processed webhook digests in Redis so replay
// protection holds across restarts and replicas.
type RedisReplayStore struct {
	client    *redis.Client
	digestTTL time.Duration
}

// NewRedisReplayStore creates a Redis-backed replay store from a Redis URL.
func NewRedisReplayStore(redisURL string, ttl time.Duration) (*RedisReplayStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReplayStore{client: client, digestTTL: ttl}, nil
}

func (rs *RedisReplayStore) Seen(ctx context.Context, digest string) (bool, error) {
	key := fmt.Sprintf("webhook_digest:%s", digest)

	// SET NX records the digest and reports in one round trip whether it
	// was already present.
	recorded, err := rs.client.SetNX(ctx, key, "1", rs.digestTTL).Result()
	if err != nil {
		return false, err
	}

	return !recorded, nil
}
