package resilience

import (
	"context"
	"testing"
	"time"
)

func TestSlidingWindowLimiter_BlocksWhenWindowFull(t *testing.T) {
	l := NewSlidingWindowLimiter(WindowLimit{Limit: 2, Window: time.Second})

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	var slept time.Duration
	l.sleep = func(_ context.Context, d time.Duration) error {
		slept += d
		now = now.Add(d)
		return nil
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if slept != 0 {
		t.Fatalf("expected no sleep under the limit, slept %s", slept)
	}

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("wait over limit: %v", err)
	}
	if slept == 0 {
		t.Fatal("expected limiter to sleep once the window filled")
	}
}

func TestSlidingWindowLimiter_CancelledContext(t *testing.T) {
	l := NewSlidingWindowLimiter(WindowLimit{Limit: 1, Window: time.Minute})

	ctx := context.Background()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := l.Wait(cancelled); err == nil {
		t.Fatal("expected context error while waiting for capacity")
	}
}

func TestSlidingWindowLimiter_NoLimits(t *testing.T) {
	l := NewSlidingWindowLimiter()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("unlimited wait: %v", err)
	}
}
