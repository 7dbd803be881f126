package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/commerceintel/admin-service/internal/metrics"
)

// ErrCacheUnavailable is returned while the cache breaker is open
var ErrCacheUnavailable = errors.New("catalog cache unavailable")

// BreakerState is the state of the cache circuit breaker
type BreakerState int

const (
	// BreakerClosed lets cache calls through
	BreakerClosed BreakerState = iota
	// BreakerOpen skips the cache entirely
	BreakerOpen
	// BreakerHalfOpen lets probe calls through to test recovery
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig controls when the cache is bypassed
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit
	MaxFailures int
	// ResetTimeout is how long the circuit stays open before probing
	ResetTimeout time.Duration
	// HalfOpenSuccesses is the number of probe successes that close it again
	HalfOpenSuccesses int
}

// DefaultBreakerConfig returns the default cache breaker configuration
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:       5,
		ResetTimeout:      30 * time.Second,
		HalfOpenSuccesses: 2,
	}
}

// breakerCache bypasses a failing cache so a Redis outage costs one timeout per
// ResetTimeout instead of one per request.
type breakerCache struct {
	inner   Cache
	config  BreakerConfig
	metrics *metrics.Recorder
	logger  zerolog.Logger
	now     func() time.Time

	mu          sync.Mutex
	state       BreakerState
	failures    int
	successes   int
	lastFailure time.Time
}

// NewBreakerCache wraps inner with a circuit breaker
func NewBreakerCache(inner Cache, cfg BreakerConfig) Cache {
	def := DefaultBreakerConfig()
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = def.MaxFailures
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = def.ResetTimeout
	}
	if cfg.HalfOpenSuccesses <= 0 {
		cfg.HalfOpenSuccesses = def.HalfOpenSuccesses
	}
	return &breakerCache{
		inner:   inner,
		config:  cfg,
		metrics: metrics.NewRecorder(),
		logger:  log.With().Str("component", "catalog-cache-breaker").Logger(),
		now:     time.Now,
	}
}

func (b *breakerCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	if !b.allow() {
		return false, ErrCacheUnavailable
	}
	hit, err := b.inner.Get(ctx, key, dst)
	b.record(err)
	return hit, err
}

func (b *breakerCache) Set(ctx context.Context, key string, value interface{}) error {
	if !b.allow() {
		return ErrCacheUnavailable
	}
	err := b.inner.Set(ctx, key, value)
	b.record(err)
	return err
}

// InvalidateAll always reaches the cache; stale entries must not survive an explicit flush
func (b *breakerCache) InvalidateAll(ctx context.Context) error {
	err := b.inner.InvalidateAll(ctx)
	b.record(err)
	return err
}

// State returns the current breaker state
func (b *breakerCache) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *breakerCache) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed, BreakerHalfOpen:
		return true
	case BreakerOpen:
		if b.now().Sub(b.lastFailure) >= b.config.ResetTimeout {
			b.transition(BreakerHalfOpen)
			return true
		}
		return false
	default:
		return false
	}
}

func (b *breakerCache) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		switch b.state {
		case BreakerClosed:
			b.failures = 0
		case BreakerHalfOpen:
			b.successes++
			if b.successes >= b.config.HalfOpenSuccesses {
				b.transition(BreakerClosed)
			}
		}
		return
	}

	b.failures++
	b.lastFailure = b.now()
	switch b.state {
	case BreakerClosed:
		if b.failures >= b.config.MaxFailures {
			b.logger.Warn().Err(err).
				Int("failures", b.failures).
				Dur("reset_timeout", b.config.ResetTimeout).
				Msg("Catalog cache failing, bypassing it")
			b.transition(BreakerOpen)
		}
	case BreakerHalfOpen:
		b.transition(BreakerOpen)
	}
}

// transition must be called with mu held
func (b *breakerCache) transition(to BreakerState) {
	if to == BreakerClosed {
		b.logger.Info().Msg("Catalog cache recovered")
		b.failures = 0
	}
	b.state = to
	b.successes = 0
	b.metrics.RecordCacheBreakerState(int(to))
}
