package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeduper stores processed idempotency keys in Redis so all instances
// can avoid reapplying the same mutation.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper creates a deduper using the provided Redis client and TTL.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (r *RedisDeduper) key(tenant, key string) string {
	return fmt.Sprintf("idem:%s:%s", tenant, key)
}

// Add records the key if it does not already exist. It returns true when the
// key was newly added.
func (r *RedisDeduper) Add(ctx context.Context, tenant, key string) (bool, error) {
	return r.client.SetNX(ctx, r.key(tenant, key), 1, r.ttl).Result()
}

// Remove deletes a previously recorded key. It is used when the mutation
// fails after the key was recorded so the caller may retry.
func (r *RedisDeduper) Remove(ctx context.Context, tenant, key string) error {
	return r.client.Del(ctx, r.key(tenant, key)).Err()
}
