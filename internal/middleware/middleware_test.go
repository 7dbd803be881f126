package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClientLimiterAllowsBurst(t *testing.T) {
	l := NewClientLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 2, IdleTTL: time.Minute})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, _ := l.Allow("ip:10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.Allow("ip:10.0.0.1")
	assert.True(t, ok)

	ok, wait := l.Allow("ip:10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	ok, _ = l.Allow("ip:10.0.0.2")
	assert.True(t, ok, "clients are limited independently")
}

func TestClientLimiterRejectionKeepsTokens(t *testing.T) {
	l := NewClientLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Minute})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, _ := l.Allow("u")
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		ok, _ = l.Allow("u")
		require.False(t, ok)
	}

	now = now.Add(time.Second)
	ok, _ = l.Allow("u")
	assert.True(t, ok, "rejected requests do not borrow from future tokens")
}

func TestClientLimiterEvict(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewClientLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Minute})
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(90 * time.Second)
	l.Allow("b")

	assert.Equal(t, 1, l.Evict())
	assert.Equal(t, 1, l.Len())
}

func TestRateLimitMiddleware(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	router := gin.New()
	router.Use(RateLimitMiddleware(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 1}, done))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(UserHeader, "ops@example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "named users get their own bucket")
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(RateLimiterConfig{}, nil))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	router := gin.New()
	router.Use(RequestLogger(logger), Recovery(logger))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom?x=1", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), `"panic":"boom"`)
	assert.Contains(t, buf.String(), `"path":"/boom"`)
	assert.Contains(t, buf.String(), `"query":"x=1"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
