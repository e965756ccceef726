// Package query runs view queries through a keyed cache and reports their
// outcome as a State. A Client is created once per application, handed to the
// views that need it and closed on shutdown.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

// ErrClosed is returned for queries run after Close.
var ErrClosed = errors.New("query client closed")

// KeySeparator joins the parts of a Key.
const KeySeparator = "::"

// Key identifies a query, e.g. Key{"rooms"} or Key{"room", id}.
type Key []string

func (k Key) String() string {
	return strings.Join(k, KeySeparator)
}

// FetchFunc loads the value for a key from the source of truth.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Backend stores encoded query results. GetOrFetch returns the cached bytes
// for key or calls fetch and caches its result. Errors from fetch are returned
// as-is and never cached.
type Backend interface {
	GetOrFetch(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

type Client struct {
	backend Backend
	logger  *slog.Logger
	closed  atomic.Bool
	fetches atomic.Int64
}

func NewClient(backend Backend, logger *slog.Logger) *Client {
	return &Client{backend: backend, logger: logger}
}

// Run executes the query for key and returns its settled state.
func Run[T any](ctx context.Context, c *Client, key Key, fetch FetchFunc[T]) State[T] {
	if c.closed.Load() {
		return Failed[T](ErrClosed)
	}

	raw, err := c.backend.GetOrFetch(ctx, key.String(), func(ctx context.Context) ([]byte, error) {
		c.fetches.Add(1)
		// Callers waiting on the same key share this fetch, so one of them
		// going away must not fail it for the rest.
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		c.logger.Debug("query failed", "key", key.String(), "error", err)
		return Failed[T](err)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		c.logger.Error("query result undecodable", "key", key.String(), "error", err)
		return Failed[T](fmt.Errorf("failed to decode %s: %w", key, err))
	}
	return Succeeded(v)
}

// Refetch drops any cached result for key and runs the query again. Callers
// that arrive while a fetch for key is in flight still share it.
func Refetch[T any](ctx context.Context, c *Client, key Key, fetch FetchFunc[T]) State[T] {
	if err := c.Invalidate(ctx, key); err != nil && !errors.Is(err, ErrClosed) {
		c.logger.Warn("invalidate query failed", "key", key.String(), "error", err)
	}
	return Run(ctx, c, key, fetch)
}

// Invalidate drops the cached result for key so the next Run fetches again.
func (c *Client) Invalidate(ctx context.Context, key Key) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.backend.Delete(ctx, key.String()); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", key, err)
	}
	return nil
}

// Fetches counts how many times a fetch function reached the source of truth.
func (c *Client) Fetches() int64 {
	return c.fetches.Load()
}

// Close releases the backend. Further queries fail with ErrClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.backend.Close(); err != nil {
		return fmt.Errorf("failed to close query backend: %w", err)
	}
	return nil
}
