// Package bootstrap opens the shared resources both binaries need.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"smart_channels/internal/config"
	"smart_channels/internal/ratelimit"
	"smart_channels/internal/repository/db"
)

const redisPingTimeout = 3 * time.Second

// OpenDB opens the SQLite database and ensures the schema.
func OpenDB(cfg *config.Config) (*sql.DB, error) {
	return db.InitDB(cfg.DB.Path)
}

// OpenStore builds the rate limit counter backend selected by rate_limit.store.
// The memory store is per process, so counters it holds are not visible to the userlimits tool.
func OpenStore(ctx context.Context, cfg *config.Config, sqlDB *sql.DB) (ratelimit.Store, error) {
	switch cfg.RateLimit.Store {
	case config.StoreMemory:
		return ratelimit.NewMemoryStore(), nil
	case config.StoreSQLite:
		return ratelimit.NewSQLiteStore(sqlDB), nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		return ratelimit.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", cfg.RateLimit.Store)
	}
}

// NewLimiter parses the default rule and binds it to store.
func NewLimiter(cfg *config.Config, store ratelimit.Store) (*ratelimit.Limiter, error) {
	def, err := ratelimit.NewDefaultRule(cfg.RateLimit.Default)
	if err != nil {
		return nil, fmt.Errorf("rate_limit.default: %w", err)
	}
	return ratelimit.NewLimiter(store, def)
}
