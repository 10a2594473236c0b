// Package dedup records processed external event ids so redelivered
// webhooks are acknowledged without being applied twice.
package dedup

import (
	"context"
	"fmt"
	"time"

	"laundry/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	keyPattern = "dedup:%s:%s"
	DefaultTTL = 48 * time.Hour
)

type redisClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisDeduplicator struct {
	rdb redisClient
	ttl time.Duration
}

func NewRedisDeduplicator(rdb redis.UniversalClient, ttl time.Duration) *RedisDeduplicator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisDeduplicator{rdb: rdb, ttl: ttl}
}

func key(namespace, id string) string {
	return fmt.Sprintf(keyPattern, namespace, id)
}

func (d *RedisDeduplicator) FirstSeen(ctx context.Context, namespace, id string) (bool, error) {
	if id == "" {
		return false, errs.NewValueIsRequiredError("event id")
	}
	ok, err := d.rdb.SetNX(ctx, key(namespace, id), time.Now().UTC().Unix(), d.ttl).Result()
	if err != nil {
		return false, errs.NewExternalServiceError("redis", err)
	}
	return ok, nil
}

func (d *RedisDeduplicator) Forget(ctx context.Context, namespace, id string) error {
	if err := d.rdb.Del(ctx, key(namespace, id)).Err(); err != nil {
		return errs.NewExternalServiceError("redis", err)
	}
	return nil
}

// Noop treats every event as new. Applying a payment twice is harmless,
// so it stands in when Redis is not configured.
type Noop struct{}

func (Noop) FirstSeen(context.Context, string, string) (bool, error) { return true, nil }
func (Noop) Forget(context.Context, string, string) error            { return nil }
