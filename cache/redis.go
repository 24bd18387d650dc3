package cache

import (
	"context"
	"fmt"

	"github.com/ncobase/composite/config"
	"github.com/ncobase/composite/logging/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedis connects to the configured redis. It returns a nil client when
// no address is set.
func NewRedis(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	if !cfg.Enabled() {
		logger.Infof(ctx, "redis address not set, user cache disabled")
		return nil, nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		DialTimeout:  cfg.DialTimeout,
	})

	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	logger.Infof(ctx, "connected to redis at %s", cfg.Addr)
	return rc, nil
}
