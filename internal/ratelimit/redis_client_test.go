package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClientNoAddr(t *testing.T) {
	client, err := NewRedisClient("", "", 0)

	require.NoError(t, err)
	assert.False(t, client.IsEnabled())
	assert.Nil(t, client.GetClient())
}

func TestDisabledClientPingFails(t *testing.T) {
	client := &RedisClient{enabled: false}

	assert.Error(t, client.Ping(context.Background()))
}

func TestDisabledClientCloseIsNoop(t *testing.T) {
	client := &RedisClient{enabled: false}

	assert.NoError(t, client.Close())
}

func TestDisabledClientPoolStats(t *testing.T) {
	stats := (&RedisClient{enabled: false}).GetPoolStats()

	assert.Equal(t, false, stats["enabled"])
	assert.NotContains(t, stats, "addr")
}
