package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// likeCountTTL keeps counters warm without letting a missed invalidation
// linger forever.
const likeCountTTL = time.Hour

// RedisCache offloads hot like counters from the primary store. The cache is
// optional: callers fall back to a DB count on a miss or error.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes a Redis client. Only addr is mandatory.
func NewRedisCache(addr, password string, db int) *RedisCache {
	opts := &redis.Options{Addr: addr}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// KeyForLikeCount generates the key for one target's like counter
func (c *RedisCache) KeyForLikeCount(kind string, targetID uint) string {
	return fmt.Sprintf("likes:count:%s:%d", kind, targetID)
}

// GetLikeCount returns the cached counter. The second return value reports a
// hit; misses and errors both read as (0, false, err-or-nil).
func (c *RedisCache) GetLikeCount(ctx context.Context, kind string, targetID uint) (int64, bool, error) {
	val, err := c.Client.Get(ctx, c.KeyForLikeCount(kind, targetID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

// SetLikeCount stores the counter, refreshing the TTL
func (c *RedisCache) SetLikeCount(ctx context.Context, kind string, targetID uint, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikeCount(kind, targetID), count, likeCountTTL).Err()
}

// InvalidateLikeCount drops the counter after a like or unlike
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, kind string, targetID uint) error {
	return c.Client.Del(ctx, c.KeyForLikeCount(kind, targetID)).Err()
}
