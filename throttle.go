package searcherator

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Default throttle parameters. The Brave Search API tolerates short bursts
// but not sustained pressure; 20 concurrent requests with 75ms between
// request starts stays inside the paid plan limits.
const (
	DefaultConcurrency = 20
	DefaultMinInterval = 75 * time.Millisecond
)

// Throttle gates outgoing requests behind two serial checks: a weighted
// semaphore capping how many requests may be in flight at once, and a
// spacing gate enforcing a minimum gap between consecutive request starts.
// To keep several clients under one combined limit, construct a single
// Throttle and hand it to each of them via WithThrottle.
type Throttle struct {
	sem         *semaphore.Weighted
	capacity    int64
	minInterval time.Duration

	mu        sync.Mutex
	lastStart time.Time
}

// NewThrottle creates a throttle admitting at most capacity concurrent
// requests with at least minInterval between request starts. Capacity must
// be at least 1; New validates the limits of whatever throttle a client
// ends up with.
func NewThrottle(capacity int64, minInterval time.Duration) *Throttle {
	return &Throttle{
		sem:         semaphore.NewWeighted(capacity),
		capacity:    capacity,
		minInterval: minInterval,
	}
}

// Acquire blocks until the caller holds a concurrency slot and its turn at
// the spacing gate, or until ctx is done. On success the caller owns one
// slot and must call Release exactly once, on every exit path. On error
// nothing is held.
func (t *Throttle) Acquire(ctx context.Context) error {
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	if err := t.waitTurn(ctx); err != nil {
		t.sem.Release(1)
		return err
	}

	return nil
}

// Release returns the concurrency slot taken by a successful Acquire.
func (t *Throttle) Release() {
	t.sem.Release(1)
}

// waitTurn enforces the start spacing. The read of the last start, the
// sleep, and the timestamp update all happen under one lock so two callers
// can never both observe a stale timestamp and proceed together. The
// timestamp is written before returning, which is before the request goes
// out: spacing is measured start to start, not end to start.
func (t *Throttle) waitTurn(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.minInterval > 0 && !t.lastStart.IsZero() {
		if wait := t.minInterval - time.Since(t.lastStart); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	t.lastStart = time.Now()
	return nil
}
