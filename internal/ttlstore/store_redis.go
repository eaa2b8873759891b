package ttlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries in Redis under a per-store key prefix and lets
// Redis key expiry play the role of the sweep. Values are JSON encoded.
// Use it when several instances must share in-flight OAuth state.
type RedisStore[V any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed store. prefix namespaces the keys, e.g.
// "oauth:state:".
func NewRedis[V any](client *redis.Client, prefix string, ttl time.Duration) *RedisStore[V] {
	return &RedisStore[V]{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore[V]) Set(ctx context.Context, key string, value V) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode ttl entry: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("set ttl entry: %w", err)
	}
	return nil
}

func (s *RedisStore[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	payload, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("get ttl entry: %w", err)
	}
	var value V
	if err := json.Unmarshal(payload, &value); err != nil {
		// An undecodable entry is as good as absent; drop it.
		_ = s.client.Del(ctx, s.prefix+key).Err()
		return zero, false, nil
	}
	return value, true, nil
}

func (s *RedisStore[V]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete ttl entry: %w", err)
	}
	return nil
}

var _ Store[string] = (*RedisStore[string])(nil)
