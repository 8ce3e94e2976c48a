package main

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// tipsCache stores model answers keyed by a prompt hash.
type tipsCache interface {
	get(ctx context.Context, key string) (string, bool, error)
	set(ctx context.Context, key, value string) error
}

// redisTipsCache is the Redis-backed tipsCache.
type redisTipsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisTipsCache(client *redis.Client, ttl time.Duration) *redisTipsCache {
	return &redisTipsCache{client: client, ttl: ttl}
}

func (r *redisTipsCache) get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *redisTipsCache) set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}
