package middleware

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	throttleMaxClients = 1000
	throttleTTL        = 5 * time.Minute
)

var ErrThrottled = errors.New("rate limit exceeded")

// Throttle is a per-client token bucket. Idle clients are forgotten after
// throttleTTL. A non-positive rate disables throttling.
type Throttle struct {
	mu       sync.RWMutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	enabled  bool
}

func NewThrottle(requestsPerMin int) *Throttle {
	t := &Throttle{
		limiters: expirable.NewLRU[string, *rate.Limiter](throttleMaxClients, nil, throttleTTL),
	}
	t.SetRate(requestsPerMin)
	return t
}

// SetRate changes the per-minute budget. Existing buckets are dropped.
func (t *Throttle) SetRate(requestsPerMin int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = requestsPerMin > 0
	t.limit = rate.Limit(float64(requestsPerMin) / 60.0)
	t.burst = requestsPerMin / 10
	if t.burst < 1 {
		t.burst = 1
	}
	t.limiters.Purge()
}

// Allow consumes one token for key.
func (t *Throttle) Allow(key string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.enabled {
		return nil
	}

	limiter, ok := t.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(t.limit, t.burst)
		// Two first requests racing may each create a limiter; the later Add wins.
		t.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("%w for %s", ErrThrottled, key)
	}
	return nil
}
