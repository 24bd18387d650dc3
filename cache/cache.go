package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// ICache defines a general caching interface
type ICache[T any] interface {
	Get(context.Context, string) (*T, error)
	Set(context.Context, string, *T, ...time.Duration) error
	Delete(context.Context, string) error
}

// Cache stores JSON encoded values of T under prefixed keys.
// A nil redis client turns every operation into a miss or a no-op.
type Cache[T any] struct {
	rc  *redis.Client
	key string
	ttl time.Duration
}

// NewCache creates a new Cache instance
func NewCache[T any](rc *redis.Client, key string, ttl time.Duration) *Cache[T] {
	return &Cache[T]{rc: rc, key: key, ttl: ttl}
}

// Key returns the redis key of field.
func (c *Cache[T]) Key(field string) string {
	if c.key != "" {
		return fmt.Sprintf("%s:%s", c.key, field)
	}
	return field
}

// Enabled reports whether a redis client is attached.
func (c *Cache[T]) Enabled() bool {
	return c != nil && c.rc != nil
}

// Get retrieves a single item from cache
func (c *Cache[T]) Get(ctx context.Context, field string) (*T, error) {
	if !c.Enabled() {
		return nil, ErrMiss
	}

	result, err := c.rc.Get(ctx, c.Key(field)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var row T
	dec := json.NewDecoder(bytes.NewReader(result))
	dec.UseNumber()
	if err := dec.Decode(&row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &row, nil
}

// Set saves a single item into cache, with the cache TTL unless expire is given.
func (c *Cache[T]) Set(ctx context.Context, field string, data *T, expire ...time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	exp := c.ttl
	if len(expire) > 0 {
		exp = expire[0]
	}
	if err := c.rc.Set(ctx, c.Key(field), b, exp).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete removes a single item from cache
func (c *Cache[T]) Delete(ctx context.Context, field string) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.rc.Del(ctx, c.Key(field)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}
