package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/commerceintel/admin-service/internal/metrics"
)

// UserHeader identifies the acting admin user. Requests carrying it are
// limited per user, all others per client IP.
const UserHeader = "X-User"

// RateLimiterConfig configures inbound throttling.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// IdleTTL is how long a client's bucket survives without requests.
	IdleTTL time.Duration
}

// DefaultRateLimiterConfig returns the inbound defaults.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 20,
		BurstSize:         40,
		IdleTTL:           10 * time.Minute,
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter holds one token bucket per client key.
type ClientLimiter struct {
	cfg RateLimiterConfig
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewClientLimiter creates an empty limiter.
func NewClientLimiter(cfg RateLimiterConfig) *ClientLimiter {
	return &ClientLimiter{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes a token for key. When none is available it returns false and
// how long the client should wait.
func (l *ClientLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.BurstSize)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Evict drops buckets idle for longer than IdleTTL and reports how many went.
func (l *ClientLimiter) Evict() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.cfg.IdleTTL)
	n := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

// Len returns the number of tracked clients.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func clientKey(c *gin.Context) (key, kind string) {
	if user := c.GetHeader(UserHeader); user != "" {
		return "user:" + user, "user"
	}
	return "ip:" + c.ClientIP(), "ip"
}

// RateLimitMiddleware throttles requests per client and answers 429 with a
// Retry-After header. A non-positive rate disables it. Idle buckets are
// evicted until done is closed.
func RateLimitMiddleware(cfg RateLimiterConfig, done <-chan struct{}) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.BurstSize < 1 {
		cfg.BurstSize = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultRateLimiterConfig().IdleTTL
	}

	limiter := NewClientLimiter(cfg)
	recorder := metrics.NewRecorder()

	go func() {
		ticker := time.NewTicker(cfg.IdleTTL)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				limiter.Evict()
			}
		}
	}()

	return func(c *gin.Context) {
		key, kind := clientKey(c)
		ok, wait := limiter.Allow(key)
		if ok {
			c.Next()
			return
		}

		recorder.RecordThrottled(kind)
		if wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
	}
}
