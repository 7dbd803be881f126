package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix  = "catalog:"
	scanBatchSize   = 100
	defaultCacheTTL = 5 * time.Minute
)

// CacheConfig configures the response cache
type CacheConfig struct {
	Enabled  bool
	RedisURL string
	TTL      time.Duration
	Breaker  BreakerConfig
}

// Cache stores decoded catalog responses
type Cache interface {
	// Get decodes the cached value for key into dst and reports whether it was present.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	InvalidateAll(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopCache struct{}

// NewCache connects to Redis when caching is enabled, otherwise it returns a no-op cache
func NewCache(cfg CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return NewNoopCache(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewBreakerCache(NewRedisCache(client, cfg.TTL), cfg.Breaker), nil
}

// NewRedisCache wraps an existing client
func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisCache{client: client, ttl: ttl}
}

func NewNoopCache() Cache {
	return &noopCache{}
}

func (c *redisCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return false, fmt.Errorf("decode catalog cache entry %s: %w", key, err)
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode catalog cache entry %s: %w", key, err)
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, cacheKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *noopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (c *noopCache) Set(context.Context, string, interface{}) error         { return nil }
func (c *noopCache) InvalidateAll(context.Context) error                    { return nil }
