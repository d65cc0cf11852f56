package authcore

import (
	"context"
	"fmt"
)

// CheckRateLimit records one attempt for key and reports whether it is
// still within the window budget. Keys are opaque (a normalized email, an
// IP, an account id); the limiter neither looks keys up nor reveals
// whether they map to an account. The increment-and-compare is a single
// atomic Redis operation, so concurrent calls for the same key cannot
// both slip under the limit.
func (e *Engine) CheckRateLimit(ctx context.Context, key string) (bool, error) {
	if e == nil || e.limiter == nil {
		return false, ErrEngineNotReady
	}

	allowed, err := e.limiter.Allow(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRateLimiterUnavailable, err)
	}
	if !allowed {
		e.emitRateLimit(ctx, "account_action")
	}
	return allowed, nil
}

// ResetRateLimit clears the window for a key, typically after the guarded
// action completed successfully.
func (e *Engine) ResetRateLimit(ctx context.Context, key string) error {
	if e == nil || e.limiter == nil {
		return ErrEngineNotReady
	}
	if err := e.limiter.Reset(ctx, key); err != nil {
		return fmt.Errorf("%w: %v", ErrRateLimiterUnavailable, err)
	}
	return nil
}
