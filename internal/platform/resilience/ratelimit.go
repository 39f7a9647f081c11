package resilience

import (
	"context"
	"sync"
	"time"
)

// WindowLimit caps the number of events inside a trailing window.
type WindowLimit struct {
	Limit  int
	Window time.Duration
}

// SlidingWindowLimiter enforces one or more trailing-window request limits.
// Wait blocks until every window has capacity or the context is done.
type SlidingWindowLimiter struct {
	mu      sync.Mutex
	limits  []WindowLimit
	history [][]time.Time
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

func NewSlidingWindowLimiter(limits ...WindowLimit) *SlidingWindowLimiter {
	kept := make([]WindowLimit, 0, len(limits))
	for _, l := range limits {
		if l.Limit > 0 && l.Window > 0 {
			kept = append(kept, l)
		}
	}
	return &SlidingWindowLimiter{
		limits:  kept,
		history: make([][]time.Time, len(kept)),
		now:     time.Now,
		sleep:   sleepContext,
	}
}

func (l *SlidingWindowLimiter) Wait(ctx context.Context) error {
	if l == nil || len(l.limits) == 0 {
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.mu.Lock()
		now := l.now()
		wait := time.Duration(0)
		for i, limit := range l.limits {
			l.history[i] = trimBefore(l.history[i], now.Add(-limit.Window))
			if len(l.history[i]) >= limit.Limit {
				until := l.history[i][0].Add(limit.Window).Sub(now)
				if until > wait {
					wait = until
				}
			}
		}
		if wait == 0 {
			for i := range l.history {
				l.history[i] = append(l.history[i], now)
			}
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		if err := l.sleep(ctx, wait+10*time.Millisecond); err != nil {
			return err
		}
	}
}

func trimBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(stamps) && !stamps[idx].After(cutoff) {
		idx++
	}
	if idx == 0 {
		return stamps
	}
	return append(stamps[:0], stamps[idx:]...)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
