package query

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/roombook/internal/domain"
	"github.com/vbonduro/roombook/internal/service"
)

func setupRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	backend, err := NewRedisBackend(RedisConfig{Addr: mr.Addr(), TTL: time.Minute}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend, mr
}

func TestRedisBackendCachesResults(t *testing.T) {
	backend, mr := setupRedisBackend(t)
	c := NewClient(backend, slog.Default())
	ctx := context.Background()
	fetch := func(context.Context) (*domain.Room, error) {
		return &domain.Room{ID: "1", Name: "Ocean View", Price: 180, Capacity: 2}, nil
	}

	first := Run(ctx, c, Key{"room", "1"}, fetch)
	second := Run(ctx, c, Key{"room", "1"}, fetch)

	require.True(t, first.IsSuccess())
	require.True(t, second.IsSuccess())
	assert.Equal(t, "Ocean View", second.Data.Name)
	assert.InDelta(t, 180.0, second.Data.Price, 0.001)
	assert.EqualValues(t, 1, c.Fetches())

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], defaultRedisPrefix)
	assert.Positive(t, mr.TTL(keys[0]))
}

func TestRedisBackendExpiry(t *testing.T) {
	backend, mr := setupRedisBackend(t)
	c := NewClient(backend, slog.Default())
	ctx := context.Background()
	fetch := func(context.Context) (int, error) { return 1, nil }

	Run(ctx, c, Key{"rooms"}, fetch)
	mr.FastForward(2 * time.Minute)
	Run(ctx, c, Key{"rooms"}, fetch)

	assert.EqualValues(t, 2, c.Fetches())
}

func TestRedisBackendDoesNotCacheErrors(t *testing.T) {
	backend, mr := setupRedisBackend(t)
	c := NewClient(backend, slog.Default())

	state := Run(context.Background(), c, Key{"room", "missing"}, func(context.Context) (*domain.Room, error) {
		return nil, &service.Error{Kind: service.KindNotFound, Message: "Room not found"}
	})

	assert.True(t, state.NotFound())
	assert.Empty(t, mr.Keys())
}

func TestRedisBackendInvalidate(t *testing.T) {
	backend, mr := setupRedisBackend(t)
	c := NewClient(backend, slog.Default())
	ctx := context.Background()

	Run(ctx, c, Key{"rooms"}, func(context.Context) (int, error) { return 1, nil })
	require.Len(t, mr.Keys(), 1)

	require.NoError(t, c.Invalidate(ctx, Key{"rooms"}))
	assert.Empty(t, mr.Keys())
}

func TestRedisBackendUnavailableFallsBackToFetch(t *testing.T) {
	backend, mr := setupRedisBackend(t)
	c := NewClient(backend, slog.Default())
	mr.SetError("ERR server unavailable")

	state := Run(context.Background(), c, Key{"rooms"}, func(context.Context) ([]string, error) {
		return []string{"Ocean View"}, nil
	})

	require.True(t, state.IsSuccess())
	assert.Equal(t, []string{"Ocean View"}, state.Data)
	assert.Error(t, backend.Ping(context.Background()))
}

func TestRedisBackendRefetch(t *testing.T) {
	backend, mr := setupRedisBackend(t)
	c := NewClient(backend, slog.Default())
	ctx := context.Background()
	fetch := func(context.Context) (int, error) { return 1, nil }

	Refetch(ctx, c, Key{"rooms"}, fetch)
	Refetch(ctx, c, Key{"rooms"}, fetch)

	assert.EqualValues(t, 2, c.Fetches())
	assert.Len(t, mr.Keys(), 1)
}

func TestRedisBackendFetchOutlivesCallerCancellation(t *testing.T) {
	backend, mr := setupRedisBackend(t)
	c := NewClient(backend, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state := Run(ctx, c, Key{"rooms"}, func(ctx context.Context) (int, error) {
		return 1, ctx.Err()
	})

	require.True(t, state.IsSuccess(), "err: %v", state.Err)
	assert.Empty(t, mr.Keys(), "a failed GET skips the cache entirely")
}

func TestRedisBackendPing(t *testing.T) {
	backend, _ := setupRedisBackend(t)
	assert.NoError(t, backend.Ping(context.Background()))
}

func TestRedisConfigValidate(t *testing.T) {
	_, err := NewRedisBackend(RedisConfig{TTL: time.Second}, slog.Default())
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Addr", cfgErr.Field)

	_, err = NewRedisBackend(RedisConfig{Addr: "localhost:6379"}, slog.Default())
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "TTL", cfgErr.Field)
}
