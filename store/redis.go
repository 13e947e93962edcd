package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend is the native preference backend: all entries of one
// application live in a single Redis hash, so Clear never touches another
// application's data.
type RedisBackend struct {
	redis redis.UniversalClient
	key   string
}

// NewRedisBackend returns a backend storing entries in the hash
// "<prefix>:<namespace>". Empty values default to "gs" and "default".
func NewRedisBackend(client redis.UniversalClient, prefix, namespace string) *RedisBackend {
	if prefix == "" {
		prefix = "gs"
	}
	if namespace == "" {
		namespace = "default"
	}
	return &RedisBackend{
		redis: client,
		key:   prefix + ":" + namespace,
	}
}

// HashKey returns the Redis key holding this namespace's entries.
func (r *RedisBackend) HashKey() string { return r.key }

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.redis.HGet(ctx, r.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return v, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	if err := r.redis.HSet(ctx, r.key, key, value).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (r *RedisBackend) Remove(ctx context.Context, key string) error {
	if err := r.redis.HDel(ctx, r.key, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (r *RedisBackend) Clear(ctx context.Context) error {
	if err := r.redis.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (r *RedisBackend) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.redis.HKeys(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return keys, nil
}
