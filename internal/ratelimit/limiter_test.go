package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFallbackLimiter(t *testing.T, cfg Config) *RateLimiter {
	t.Helper()
	client := &RedisClient{enabled: false}
	return NewRateLimiter(client, cfg, nil)
}

func TestAllowIPFallback(t *testing.T) {
	rl := newFallbackLimiter(t, Config{IPLimitPerMin: 10, BurstMultiplier: 1})

	result, err := rl.AllowIP(context.Background(), "192.0.2.1")
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	assert.Equal(t, 10, result.Limit)
	assert.False(t, result.ResetAt.IsZero())
}

func TestFallbackExhaustsBurst(t *testing.T) {
	rl := newFallbackLimiter(t, Config{IPLimitPerMin: 2, BurstMultiplier: 1})

	// Burst floor is 5 tokens; the 6th immediate request must be blocked.
	blocked := false
	for i := 0; i < 20; i++ {
		result, err := rl.AllowIP(context.Background(), "192.0.2.2")
		require.NoError(t, err)
		if !result.Allowed {
			blocked = true
			assert.Positive(t, result.RetryAfter)
			break
		}
	}
	assert.True(t, blocked, "expected fallback limiter to block after burst exhaustion")
}

func TestFallbackLimitersIsolatedPerKey(t *testing.T) {
	rl := newFallbackLimiter(t, Config{IPLimitPerMin: 2, BurstMultiplier: 1})

	for i := 0; i < 20; i++ {
		_, err := rl.AllowIP(context.Background(), "192.0.2.3")
		require.NoError(t, err)
	}

	result, err := rl.AllowIP(context.Background(), "192.0.2.4")
	require.NoError(t, err)
	assert.True(t, result.Allowed, "a fresh IP should not inherit another IP's exhausted bucket")
}

func TestGetStatsFallbackOnly(t *testing.T) {
	rl := newFallbackLimiter(t, DefaultConfig())

	_, err := rl.AllowIP(context.Background(), "192.0.2.5")
	require.NoError(t, err)

	stats := rl.GetStats()
	assert.Equal(t, false, stats["redis_enabled"])
	assert.Equal(t, 1, stats["fallback_limiters"])
}
