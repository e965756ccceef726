package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const defaultRedisPrefix = "roombook:query:"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	// Prefix namespaces keys when several applications share one Redis.
	Prefix string
}

func (c RedisConfig) Validate() error {
	if c.Addr == "" {
		return &ConfigError{Field: "Addr", Message: "must not be empty"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	return nil
}

// RedisBackend shares query results between server instances. When Redis
// cannot be reached the fetch runs uncached so views keep working.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	group  singleflight.Group
	logger *slog.Logger
}

func NewRedisBackend(cfg RedisConfig, logger *slog.Logger) (*RedisBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisBackend{client: client, ttl: cfg.TTL, prefix: prefix, logger: logger}, nil
}

// Ping checks the Redis connection.
func (b *RedisBackend) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (b *RedisBackend) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	rkey := b.redisKey(key)

	data, err := b.client.Get(ctx, rkey).Bytes()
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		b.logger.Warn("redis get failed, fetching uncached", "key", key, "error", err)
		return fetch(ctx)
	}

	v, err, _ := b.group.Do(rkey, func() (any, error) {
		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := b.client.Set(context.WithoutCancel(ctx), rkey, data, b.ttl).Err(); err != nil {
			b.logger.Warn("redis set failed", "key", key, "error", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete redis key: %w", err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// redisKey hashes key so ids taken from URLs cannot produce oversized or
// oddly formed Redis keys.
func (b *RedisBackend) redisKey(key string) string {
	return b.prefix + strconv.FormatUint(xxhash.Sum64String(key), 16)
}
