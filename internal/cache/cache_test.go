package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/monitoring"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("key", []byte(`{"ok":true}`))

	data, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte(`{"ok":true}`), data)
	assert.Equal(t, 1, c.Size())
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(20 * time.Millisecond)

	c.Set("key", []byte("data"))
	_, found := c.Get("key")
	require.True(t, found)

	time.Sleep(40 * time.Millisecond)

	_, found = c.Get("key")
	assert.False(t, found)
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	require.Equal(t, 2, c.Size())

	c.Invalidate()

	assert.Zero(t, c.Size())
	_, found := c.Get("a")
	assert.False(t, found)
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))

	stats := c.Stats()

	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, 0, stats["expired_items"])
	assert.Equal(t, 60.0, stats["ttl_seconds"])
}

func newCachedRouter(c *Cache, metrics *monitoring.Metrics, hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(c.Middleware(metrics))
	handler := func(ctx *gin.Context) {
		*hits++
		ctx.JSON(http.StatusOK, gin.H{"calls": *hits})
	}
	r.GET("/api/v1/analysis", handler)
	r.GET("/other", handler)
	r.POST("/api/v1/feedback", handler)
	return r
}

func TestMiddlewareCachesGetResponses(t *testing.T) {
	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()
	hits := 0
	r := newCachedRouter(c, metrics, &hits)

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/api/v1/analysis", nil))
	require.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, 1, hits)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/v1/analysis", nil))
	require.Equal(t, http.StatusOK, w2.Code)

	// Second request served from cache: handler not re-invoked, body identical.
	assert.Equal(t, 1, hits)
	assert.Equal(t, w1.Body.String(), w2.Body.String())
}

func TestMiddlewareKeysOnQueryString(t *testing.T) {
	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()
	hits := 0
	r := newCachedRouter(c, metrics, &hits)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/analysis?quarter=Q1+2026", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/analysis?quarter=Q2+2026", nil))

	assert.Equal(t, 2, hits, "different query strings must cache separately")
}

func TestMiddlewareSkipsNonAPIAndWrites(t *testing.T) {
	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()
	hits := 0
	r := newCachedRouter(c, metrics, &hits)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/other", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, 2, hits)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/feedback", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/feedback", nil))
	assert.Equal(t, 4, hits)
}

func TestMiddlewareInvalidateForcesRecompute(t *testing.T) {
	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()
	hits := 0
	r := newCachedRouter(c, metrics, &hits)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/analysis", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/analysis", nil))
	require.Equal(t, 1, hits)

	c.Invalidate()

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/analysis", nil))
	assert.Equal(t, 2, hits)
}
