package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ncobase/composite/logging/logger"
	"github.com/ncobase/composite/upstream"
	"github.com/redis/go-redis/v9"
)

// UserKeyPrefix prefixes the redis keys of cached user records.
const UserKeyPrefix = "composite:user"

// Users caches user records by id. Redis failures are logged and reported
// as misses so the caller falls through to the Users service.
type Users struct {
	cache *Cache[upstream.User]
}

// NewUsers creates a user cache on rc. A nil rc disables caching.
func NewUsers(rc *redis.Client, ttl time.Duration) *Users {
	return &Users{cache: NewCache[upstream.User](rc, UserKeyPrefix, ttl)}
}

// Enabled reports whether the cache is backed by redis.
func (u *Users) Enabled() bool {
	return u != nil && u.cache.Enabled()
}

// Get returns the cached user with id.
func (u *Users) Get(ctx context.Context, id int64) (upstream.User, bool) {
	if !u.Enabled() {
		return nil, false
	}
	user, err := u.cache.Get(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			logger.Warnf(ctx, "user cache get %d: %v", id, err)
		}
		return nil, false
	}
	if user == nil || *user == nil {
		return nil, false
	}
	return *user, true
}

// Put stores user under id.
func (u *Users) Put(ctx context.Context, id int64, user upstream.User) {
	if !u.Enabled() {
		return
	}
	if err := u.cache.Set(ctx, strconv.FormatInt(id, 10), &user); err != nil {
		logger.Warnf(ctx, "user cache set %d: %v", id, err)
	}
}

// Forget drops the cached user with id.
func (u *Users) Forget(ctx context.Context, id int64) {
	if !u.Enabled() {
		return
	}
	if err := u.cache.Delete(ctx, strconv.FormatInt(id, 10)); err != nil {
		logger.Warnf(ctx, "user cache delete %d: %v", id, err)
	}
}
