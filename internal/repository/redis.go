package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hits:"

type redisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and returns a Store implementation.
func NewRedisStore(addr string) (Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisStore{client: client}, nil
}

func (r *redisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Incr(ctx, keyPrefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return n, nil
}

func (r *redisStore) Get(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, keyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	return n, nil
}

func (r *redisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
