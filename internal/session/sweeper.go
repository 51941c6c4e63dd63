package session

import (
	"context"
	"sync/atomic"
	"time"

	pkgLog "multi-agent-collaboration/pkg/log"
)

// ExpireFunc is invoked once per session removed by a sweep.
type ExpireFunc func(ctx context.Context, snap Snapshot)

// Sweeper periodically removes idle sessions from a Store.
type Sweeper struct {
	store    Store
	l        pkgLog.Logger
	interval time.Duration
	timeout  atomic.Int64
	onExpire ExpireFunc
}

func NewSweeper(store Store, l pkgLog.Logger, interval, timeout time.Duration, onExpire ExpireFunc) *Sweeper {
	s := &Sweeper{
		store:    store,
		l:        l,
		interval: interval,
		onExpire: onExpire,
	}
	s.timeout.Store(int64(timeout))
	return s
}

// SetTimeout changes the idle timeout used by subsequent sweeps.
func (s *Sweeper) SetTimeout(timeout time.Duration) {
	s.timeout.Store(int64(timeout))
}

func (s *Sweeper) Timeout() time.Duration {
	return time.Duration(s.timeout.Load())
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.l.Infof(ctx, "%s.Run: every %s, timeout %s", logPrefixSweeper, s.interval, s.Timeout())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs one sweep and returns how many sessions expired.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	expired := s.store.SweepExpired(ctx, s.Timeout())
	if s.onExpire != nil {
		for _, snap := range expired {
			s.onExpire(ctx, snap)
		}
	}
	return len(expired)
}
