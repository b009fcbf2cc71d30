package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/angelmondragon/storefront/pkg/redis"
)

type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	StateKey(key string) string
}

// Redis stores blobs as redis strings under the client's state namespace.
type Redis struct {
	client redisStore
	ttl    time.Duration
}

// NewRedis builds a Redis store. A zero ttl keeps keys until they are removed.
func NewRedis(client *redisclient.Client, ttl time.Duration) (*Redis, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.client.StateKey(key))
	if err != nil {
		if errors.Is(err, redisclient.ErrNil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return []byte(v), nil
}

func (r *Redis) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.client.StateKey(key), value, r.ttl); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.client.StateKey(key)); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
