package insights

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores generated analysis text keyed by catalog fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// RedisCache keeps analysis text in Redis with a TTL. Misses and
// transport errors are treated the same: regenerate.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.Client.Get(ctx, "insights:"+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string) {
	c.Client.Set(ctx, "insights:"+key, value, c.TTL)
}

// noopCache is used when no Redis connection is configured.
type noopCache struct{}

func (noopCache) Get(context.Context, string) (string, bool) { return "", false }
func (noopCache) Set(context.Context, string, string)        {}
