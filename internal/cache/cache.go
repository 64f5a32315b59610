package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/metrics"
	"github.com/fhuszti/recordings-ms-go/internal/port"
)

const cacheName = "labels"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string, ttl time.Duration) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb, ttl: ttl}
}

// Ping checks that Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// GetLabels returns nil, nil on a cache miss.
func (c *Cache) GetLabels(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, getCacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMissesTotal.WithLabelValues(cacheName).Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	metrics.CacheHitsTotal.WithLabelValues(cacheName).Inc()
	return val, nil
}

// SetLabels is best effort: failures are logged.
func (c *Cache) SetLabels(ctx context.Context, key string, data []byte) {
	logger.Debug(ctx, "caching labels", "key", key, "ttl", c.ttl)

	if err := c.client.Set(ctx, getCacheKey(key), data, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "redis set failed", "key", key, "error", err)
	}
}

func (c *Cache) DeleteLabels(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, getCacheKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func getCacheKey(key string) string {
	return "recordings:" + key
}
