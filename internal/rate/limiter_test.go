package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, maxAttempts int, window time.Duration) (*Limiter, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := New(rdb, Config{MaxAttempts: maxAttempts, Window: window})
	return limiter, mr, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func TestAllowWithinBudget(t *testing.T) {
	limiter, _, done := newTestLimiter(t, 3, time.Minute)
	defer done()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "user-1")
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	allowed, err := limiter.Allow(ctx, "user-1")
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if allowed {
		t.Fatal("fourth attempt should be denied")
	}
}

func TestWindowExpiryResetsBudget(t *testing.T) {
	limiter, mr, done := newTestLimiter(t, 1, time.Minute)
	defer done()
	ctx := context.Background()

	if allowed, err := limiter.Allow(ctx, "user-1"); err != nil || !allowed {
		t.Fatalf("first attempt: allowed=%v err=%v", allowed, err)
	}
	if allowed, err := limiter.Allow(ctx, "user-1"); err != nil || allowed {
		t.Fatalf("second attempt: allowed=%v err=%v", allowed, err)
	}

	mr.FastForward(2 * time.Minute)

	if allowed, err := limiter.Allow(ctx, "user-1"); err != nil || !allowed {
		t.Fatalf("attempt after window: allowed=%v err=%v", allowed, err)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	limiter, _, done := newTestLimiter(t, 1, time.Minute)
	defer done()
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "user-1"); !allowed {
		t.Fatal("user-1 should be allowed")
	}
	if allowed, _ := limiter.Allow(ctx, "user-1"); allowed {
		t.Fatal("user-1 should be denied")
	}
	if allowed, _ := limiter.Allow(ctx, "user-2"); !allowed {
		t.Fatal("user-2 must not share user-1's window")
	}
}

func TestAttemptsAndReset(t *testing.T) {
	limiter, _, done := newTestLimiter(t, 5, time.Minute)
	defer done()
	ctx := context.Background()

	if count, err := limiter.Attempts(ctx, "user-1"); err != nil || count != 0 {
		t.Fatalf("missing key: count=%d err=%v", count, err)
	}

	for i := 0; i < 2; i++ {
		if _, err := limiter.Allow(ctx, "user-1"); err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
	}
	if count, err := limiter.Attempts(ctx, "user-1"); err != nil || count != 2 {
		t.Fatalf("after two attempts: count=%d err=%v", count, err)
	}

	if err := limiter.Reset(ctx, "user-1"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if count, err := limiter.Attempts(ctx, "user-1"); err != nil || count != 0 {
		t.Fatalf("after reset: count=%d err=%v", count, err)
	}
}

func TestRedisUnavailable(t *testing.T) {
	limiter, mr, done := newTestLimiter(t, 3, time.Minute)
	defer done()

	mr.Close()

	if _, err := limiter.Allow(context.Background(), "user-1"); err == nil {
		t.Fatal("expected error with redis down")
	}
}
