package ratelimit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// FetchRetryError reports an upstream request that did not succeed.
type FetchRetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *FetchRetryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to fetch %s after %d attempts", e.URL, e.Attempts)
	if e.LastStatus != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.LastStatus)
	}
	if e.LastError != nil {
		b.WriteString(": ")
		b.WriteString(e.LastError.Error())
	}
	return b.String()
}

func (e *FetchRetryError) Unwrap() error {
	return e.LastError
}

// IsRetryableStatus reports whether a response status is worth another attempt.
func IsRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status/100 == 5
}

// CalculateBackoff is the delay before retry number attempt+1:
// InitialBackoff doubled per attempt, capped at MaxBackoff, plus up to 25% jitter.
func CalculateBackoff(attempt int, config Config) time.Duration {
	return grow(attempt, 2, config)
}

// CalculateRateLimitBackoff is the delay after a 429. A Retry-After header in
// seconds or as an HTTP date is honoured; otherwise the delay triples per attempt.
func CalculateRateLimitBackoff(attempt int, config Config, retryAfter string) time.Duration {
	if d, ok := parseRetryAfter(retryAfter, time.Now()); ok {
		return d + rand.N(time.Second)
	}
	return grow(attempt, 3, config)
}

func parseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, secs > 0
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now), true
	}
	return 0, false
}

func grow(attempt int, factor int64, config Config) time.Duration {
	delay := config.InitialBackoff
	for i := 0; i < attempt; i++ {
		delay *= time.Duration(factor)
		if config.MaxBackoff > 0 && delay >= config.MaxBackoff {
			delay = config.MaxBackoff
			break
		}
	}
	if config.MaxBackoff > 0 && delay > config.MaxBackoff {
		delay = config.MaxBackoff
	}
	if delay <= 0 {
		return 0
	}
	return delay + rand.N(delay/4+1)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
