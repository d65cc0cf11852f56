package authcore

import (
	"context"
	"testing"
	"time"
)

func TestCheckRateLimitBudget(t *testing.T) {
	engine, _, done := newTestEngine(t, testConfig(), newMockDataStore())
	defer done()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := engine.CheckRateLimit(ctx, "user-1")
		if err != nil {
			t.Fatalf("CheckRateLimit failed: %v", err)
		}
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	allowed, err := engine.CheckRateLimit(ctx, "user-1")
	if err != nil {
		t.Fatalf("CheckRateLimit failed: %v", err)
	}
	if allowed {
		t.Fatal("fourth attempt inside the window should be denied")
	}
}

func TestCheckRateLimitWindowReset(t *testing.T) {
	engine, mr, done := newTestEngine(t, testConfig(), newMockDataStore())
	defer done()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := engine.CheckRateLimit(ctx, "user-1"); err != nil {
			t.Fatalf("CheckRateLimit failed: %v", err)
		}
	}

	mr.FastForward(16 * time.Minute)

	allowed, err := engine.CheckRateLimit(ctx, "user-1")
	if err != nil {
		t.Fatalf("CheckRateLimit failed: %v", err)
	}
	if !allowed {
		t.Fatal("expected a fresh budget after the window elapsed")
	}
}

func TestResetRateLimit(t *testing.T) {
	engine, _, done := newTestEngine(t, testConfig(), newMockDataStore())
	defer done()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := engine.CheckRateLimit(ctx, "user-1"); err != nil {
			t.Fatalf("CheckRateLimit failed: %v", err)
		}
	}

	if err := engine.ResetRateLimit(ctx, "user-1"); err != nil {
		t.Fatalf("ResetRateLimit failed: %v", err)
	}

	allowed, err := engine.CheckRateLimit(ctx, "user-1")
	if err != nil {
		t.Fatalf("CheckRateLimit failed: %v", err)
	}
	if !allowed {
		t.Fatal("expected reset to restore the budget")
	}
}

func TestCheckRateLimitCountsMetric(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = true

	engine, _, done := newTestEngine(t, cfg, newMockDataStore())
	defer done()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := engine.CheckRateLimit(ctx, "user-1"); err != nil {
			t.Fatalf("CheckRateLimit failed: %v", err)
		}
	}

	snapshot := engine.MetricsSnapshot()
	if snapshot.Counters[MetricRateLimitHit] != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", snapshot.Counters[MetricRateLimitHit])
	}
}
