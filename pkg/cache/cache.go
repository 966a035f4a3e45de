// Package cache stores JSON-encoded values shared between requests. The
// redis implementation is used when an address is configured, the memory
// one otherwise.
package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"feuerwehr-web/pkg/config"
	"feuerwehr-web/pkg/logger"
)

type Cache interface {
	// Get decodes the value under key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// Flush removes every key starting with prefix.
	Flush(ctx context.Context, prefix string) error
}

// New returns a redis cache when cfg.Addr is set and reachable, else a
// memory cache.
func New(ctx context.Context, cfg config.RedisConfig) Cache {
	if cfg.Addr == "" {
		return NewMemory(time.Minute)
	}
	rc, err := NewRedis(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable, using in-process cache", zap.String("addr", cfg.Addr), zap.Error(err))
		return NewMemory(time.Minute)
	}
	return rc
}
