// Package cache memoizes rendered plan responses, optionally in Redis.
package cache

import (
	"bytes"
	"context"
	"fmt"
	"time"

	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/config"
)

// ResponseCache stores response bodies by key. The zero value and a nil
// pointer are valid and never hit.
type ResponseCache struct {
	cache *gocache.Cache[string]
	ttl   time.Duration
}

// New wraps any gocache store. Entries expire after ttl.
func New(s store.StoreInterface, ttl time.Duration) *ResponseCache {
	return &ResponseCache{cache: gocache.New[string](s), ttl: ttl}
}

// NewRedis caches in Redis through client.
func NewRedis(client *redis.Client, ttl time.Duration) *ResponseCache {
	return New(redisstore.NewRedis(client, store.WithExpiration(ttl)), ttl)
}

// Connect returns a Redis backed cache for cfg, or a cache that never hits
// when no address is configured or ttl is not positive.
func Connect(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*ResponseCache, error) {
	if cfg.Address == "" || ttl <= 0 {
		log.Info().Msg("Response cache disabled")
		return &ResponseCache{}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis %s: %w", cfg.Address, err)
	}
	log.Info().Str("address", cfg.Address).Dur("ttl", ttl).Msg("Response cache connected")
	return NewRedis(client, ttl), nil
}

// Enabled reports whether the cache can hit.
func (c *ResponseCache) Enabled() bool {
	return c != nil && c.cache != nil
}

// Get returns the body stored under key. Store errors count as a miss.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	v, err := c.cache.Get(ctx, key)
	if err != nil || v == "" {
		return nil, false
	}
	return []byte(v), true
}

// Set stores body under key. Failures are logged and otherwise ignored.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.cache.Set(ctx, key, string(body), store.WithExpiration(c.ttl)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache response")
	}
}

// Key joins args with '|'.
func Key(args ...string) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(a)
	}
	return b.String()
}
