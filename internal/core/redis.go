// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/coworkflow/internal/config"
)

const (
	redisConnectAttempts = 5
	redisRetryBase       = 500 * time.Millisecond
)

// Redis backs the rate limiter only. No domain state lives here.
type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opts)
	r := &Redis{Client: client}

	if err := r.waitReady(ctx); err != nil {
		_ = client.Close() //nolint:errcheck // cleanup on connection failure
		return nil, err
	}

	return r, nil
}

// waitReady retries the initial ping with doubling delays, which covers
// compose setups where redis starts after the API.
func (r *Redis) waitReady(ctx context.Context) error {
	delay := redisRetryBase

	var lastErr error
	for attempt := 1; attempt <= redisConnectAttempts; attempt++ {
		if lastErr = r.Ping(ctx); lastErr == nil {
			return nil
		}

		slog.Warn("redis not ready",
			"attempt", attempt,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("ping redis: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("ping redis: %w", lastErr)
}

func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client.PoolStats()
}
