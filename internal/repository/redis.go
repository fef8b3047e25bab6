package repository

import (
	"context"
	"fmt"
	"time"

	"mechshop/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores serialized responses in redis under a common
// namespace so prefix invalidation can SCAN them.
type RedisCache struct {
	client *redis.Client
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

const cacheNamespace = "respcache:"

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, cacheNamespace+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached response: %w", err)
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Set(ctx, cacheNamespace+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

func (r *RedisCache) Invalidate(ctx context.Context, prefix string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	var cursor uint64
	pattern := cacheNamespace + prefix + "*"
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Ping checks the redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}
