package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountersAndRates(t *testing.T) {
	m := NewMetrics()

	for i := 0; i < 10; i++ {
		m.IncrementRequest()
	}
	m.IncrementError()
	m.IncrementCacheHit()
	m.IncrementCacheHit()
	m.IncrementCacheHit()
	m.IncrementCacheMiss()
	m.IncrementAnalysisRun()
	m.IncrementTrainingFallback()
	m.IncrementAssistantQuery()

	stats := m.GetStats()
	assert.Equal(t, int64(10), stats["request_count"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.InDelta(t, 10.0, stats["error_rate_pct"].(float64), 1e-9)
	assert.InDelta(t, 75.0, stats["cache_hit_rate_pct"].(float64), 1e-9)
	assert.Equal(t, int64(1), stats["analysis_runs"])
	assert.Equal(t, int64(1), stats["training_fallbacks"])
	assert.Equal(t, int64(1), stats["assistant_queries"])
}

func TestMetricsZeroRequestsNoDivideByZero(t *testing.T) {
	stats := NewMetrics().GetStats()

	assert.Equal(t, float64(0), stats["error_rate_pct"])
	assert.Equal(t, float64(0), stats["cache_hit_rate_pct"])
}

func TestPercentileResponseTime(t *testing.T) {
	m := NewMetrics()

	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}

	p95 := m.GetPercentileResponseTime(95)
	assert.GreaterOrEqual(t, p95, 90*time.Millisecond)
	assert.LessOrEqual(t, p95, 100*time.Millisecond)

	p99 := m.GetPercentileResponseTime(99)
	assert.GreaterOrEqual(t, p99, p95)
}

func TestPercentileResponseTimeEmpty(t *testing.T) {
	assert.Equal(t, time.Duration(0), NewMetrics().GetPercentileResponseTime(95))
}

func TestResponseTimeSampleWindow(t *testing.T) {
	m := NewMetrics()

	for i := 0; i < 1500; i++ {
		m.RecordResponseTime(time.Millisecond)
	}

	m.ResponseTimesMutex.RLock()
	defer m.ResponseTimesMutex.RUnlock()
	assert.Equal(t, 1000, len(m.ResponseTimes))
}

func TestStatusCodeDistribution(t *testing.T) {
	m := new(Metrics)
	m.RequestCountByStatus = make(map[int]int64)

	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(429)

	dist := m.GetStatusCodeDistribution()
	require.Len(t, dist, 2)
	assert.Equal(t, int64(2), dist[200])
	assert.Equal(t, int64(1), dist[429])

	// Returned map is a copy.
	dist[200] = 99
	assert.Equal(t, int64(2), m.GetStatusCodeDistribution()[200])
}

func TestRateLimitCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementRateLimitIPBlock()
	m.IncrementRateLimitRedisError()
	m.IncrementRateLimitFallback()
	m.IncrementRateLimitFallback()

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["rate_limit_ip_blocks"])
	assert.Equal(t, int64(1), stats["rate_limit_redis_errors"])
	assert.Equal(t, int64(2), stats["rate_limit_fallbacks"])
}

func TestReset(t *testing.T) {
	m := NewMetrics()
	m.IncrementRequest()
	m.RecordResponseTime(time.Second)
	m.RecordRequestByStatus(500)

	m.Reset()

	stats := m.GetStats()
	assert.Equal(t, int64(0), stats["request_count"])
	assert.Empty(t, m.GetStatusCodeDistribution())
	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(95))
}
