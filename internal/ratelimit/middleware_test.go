package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(t *testing.T, rl *RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ping", rl.IPRateLimitMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestIPMiddlewareAllowsUnderLimit(t *testing.T) {
	router := newLimitedRouter(t, newFallbackLimiter(t, Config{IPLimitPerMin: 10, BurstMultiplier: 1}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
}

func TestIPMiddlewareBlockedResponse(t *testing.T) {
	router := newLimitedRouter(t, newFallbackLimiter(t, Config{IPLimitPerMin: 1, BurstMultiplier: 1}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 20; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(last, req)
		if last.Code == http.StatusTooManyRequests {
			break
		}
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.Equal(t, "rate_limit", body["category"])
	assert.Equal(t, float64(http.StatusTooManyRequests), body["http_status"])
}

func TestEndpointMiddlewareBlockedResponse(t *testing.T) {
	rl := newFallbackLimiter(t, Config{IPLimitPerMin: 100, BurstMultiplier: 1})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/ask", rl.EndpointRateLimitMiddleware("ask", 1), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	var last *httptest.ResponseRecorder
	for i := 0; i < 20; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ask", nil)
		router.ServeHTTP(last, req)
		if last.Code == http.StatusTooManyRequests {
			break
		}
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.Equal(t, "rate_limit", body["category"])
}
