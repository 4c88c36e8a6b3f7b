package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisDialTimeout = 5 * time.Second

// RedisClient holds the optional Redis connection backing the shared rate
// limiter. Redis is never required: an empty address or a failed dial leaves
// the client disabled and every limit check runs in-process instead.
type RedisClient struct {
	client  *redis.Client
	enabled bool
	addr    string
}

// NewRedisClient dials Redis at addr. A disabled client and a nil error are
// returned when addr is empty; a disabled client and the ping error when the
// server is unreachable, so callers can log and keep serving.
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	if addr == "" {
		slog.Info("REDIS_ADDR not set, rate limits are per-process only")
		return &RedisClient{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		// Rate-limit checks are the only traffic, so a small pool is plenty.
		PoolSize:     8,
		MinIdleConns: 1,
		PoolTimeout:  3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Redis unreachable, rate limits are per-process only", "addr", addr, "error", err)
		return &RedisClient{enabled: false, addr: addr}, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	slog.Info("Redis connected, rate limits are shared across instances", "addr", addr, "db", db)

	return &RedisClient{client: client, enabled: true, addr: addr}, nil
}

// GetClient returns the underlying connection for redis_rate. Nil when
// disabled.
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}

// IsEnabled reports whether limit checks can go through Redis.
func (r *RedisClient) IsEnabled() bool {
	return r.enabled
}

// Ping verifies the connection is still alive.
func (r *RedisClient) Ping(ctx context.Context) error {
	if !r.enabled {
		return fmt.Errorf("redis is disabled")
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *RedisClient) Close() error {
	if !r.enabled || r.client == nil {
		return nil
	}
	return r.client.Close()
}

// GetPoolStats reports connection pool counters for the ops endpoints.
func (r *RedisClient) GetPoolStats() map[string]interface{} {
	if !r.enabled || r.client == nil {
		return map[string]interface{}{"enabled": false}
	}

	stats := r.client.PoolStats()
	return map[string]interface{}{
		"enabled":     true,
		"addr":        r.addr,
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}
