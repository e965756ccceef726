package query

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig sizes the in-process sturdyc cache.
type MemoryConfig struct {
	// Capacity is the maximum number of cached query results.
	Capacity int
	// NumShards splits the cache for concurrent access.
	NumShards int
	// TTL is how long a successful result is served before refetching.
	TTL time.Duration
	// EvictionPercentage is the share of entries dropped when full (1-100).
	EvictionPercentage int
}

func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           1000,
		NumShards:          16,
		TTL:                30 * time.Second,
		EvictionPercentage: 10,
	}
}

func (c MemoryConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	// sturdyc evicts every TTL/NumShards and cannot run with a zero interval.
	if c.TTL < time.Duration(c.NumShards) {
		return &ConfigError{Field: "TTL", Message: "must be at least NumShards nanoseconds"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError reports an invalid backend setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// MemoryBackend keeps query results in process. Concurrent fetches of the
// same key share one call to the source.
type MemoryBackend struct {
	client *sturdyc.Client[[]byte]
}

func NewMemoryBackend(cfg MemoryConfig) (*MemoryBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage)
	return &MemoryBackend{client: client}, nil
}

func (b *MemoryBackend) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	return b.client.GetOrFetch(ctx, key, fetch)
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.client.Delete(key)
	return nil
}

// Len reports the number of cached results.
func (b *MemoryBackend) Len() int {
	return b.client.Size()
}

// Close drops every cached result.
func (b *MemoryBackend) Close() error {
	for _, key := range b.client.ScanKeys() {
		b.client.Delete(key)
	}
	return nil
}
