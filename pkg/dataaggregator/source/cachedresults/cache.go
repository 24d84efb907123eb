package cachedresults

import (
	"context"
	"errors"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/metroplanner/pkg/metrics"
)

// Cache holds raw upstream responses. A nil Cache never hits and ignores writes.
type Cache struct {
	Cache   *cache.Cache[string]
	Metrics *metrics.Collector
}

func New(client *redis.Client, expiration time.Duration, collector *metrics.Collector) *Cache {
	if client == nil {
		return nil
	}

	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &Cache{
		Cache:   cache.New[string](redisStore),
		Metrics: collector,
	}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}

	value, err := c.Cache.Get(ctx, key)
	if err != nil && !isNotFound(err) {
		c.Metrics.RecordCacheLookup("error")
		log.Warn().Err(err).Str("key", key).Msg("Failed to read cached result")
		return "", false
	}
	if err != nil || value == "" {
		c.Metrics.RecordCacheLookup("miss")
		return "", false
	}

	c.Metrics.RecordCacheLookup("hit")
	return value, true
}

func (c *Cache) Set(ctx context.Context, key string, value string) {
	if c == nil {
		return
	}

	if err := c.Cache.Set(ctx, key, value); err != nil {
		c.Metrics.RecordCacheLookup("error")
		log.Warn().Err(err).Str("key", key).Msg("Failed to store cached result")
	}
}

func isNotFound(err error) bool {
	var notFound *store.NotFound
	return errors.Is(err, redis.Nil) || errors.As(err, &notFound)
}
