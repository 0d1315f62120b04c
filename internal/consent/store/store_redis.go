package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aid-lo/cookie-consent/internal/sentinel"
)

// keyPrefix namespaces consent blobs inside a shared Redis keyspace.
const keyPrefix = "cookie-consent:"

// RedisBackend persists blobs in Redis. Keys live forever (consent has no
// TTL) under the keyPrefix namespace.
type RedisBackend struct {
	client redis.Cmdable
}

// NewRedis constructs a Redis-backed store over an existing client.
func NewRedis(client redis.Cmdable) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Probe(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("probe redis: %w", err)
	}
	return nil
}

func (b *RedisBackend) Read(ctx context.Context, key string) (string, error) {
	blob, err := b.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("read %q: %w", key, err)
	}
	return blob, nil
}

func (b *RedisBackend) Write(ctx context.Context, key, value string) error {
	if err := b.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (b *RedisBackend) Remove(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}
