package authcore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var errAnomalyBackend = errors.New("anomaly backend unavailable")

// attemptTracker counts failed verification attempts per owner inside a
// short fixed window and holds temporary IP blocks. Both live in Redis so
// every instance of the surrounding application sees the same counters.
type attemptTracker struct {
	redis  redis.UniversalClient
	config AnomalyConfig
}

func newAttemptTracker(redisClient redis.UniversalClient, cfg AnomalyConfig) *attemptTracker {
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = "acan"
	}
	return &attemptTracker{redis: redisClient, config: cfg}
}

func (t *attemptTracker) failureKey(ownerID string) string {
	return t.config.RedisPrefix + ":fail:" + ownerID
}

func (t *attemptTracker) blockKey(ip string) string {
	return t.config.RedisPrefix + ":block:" + ip
}

// RecordFailure adds one failed verification attempt for the owner. The
// first failure of a window starts the window TTL.
func (t *attemptTracker) RecordFailure(ctx context.Context, ownerID string) error {
	if t == nil || t.redis == nil || ownerID == "" {
		return nil
	}
	key := t.failureKey(ownerID)
	count, err := t.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", errAnomalyBackend, err)
	}
	if count == 1 {
		if err := t.redis.Expire(ctx, key, t.config.FailureWindow).Err(); err != nil {
			return fmt.Errorf("%w: %v", errAnomalyBackend, err)
		}
	}
	return nil
}

// RecentFailures returns the failure count inside the current window.
func (t *attemptTracker) RecentFailures(ctx context.Context, ownerID string) (int, error) {
	count, err := t.redis.Get(ctx, t.failureKey(ownerID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", errAnomalyBackend, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

// BlockIP places a temporary block on the address. Redis expiry enforces
// the TTL; there is no unblock operation.
func (t *attemptTracker) BlockIP(ctx context.Context, ip string) error {
	if ip == "" {
		return nil
	}
	if err := t.redis.Set(ctx, t.blockKey(ip), time.Now().Unix(), t.config.IPBlockTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", errAnomalyBackend, err)
	}
	return nil
}

// IsIPBlocked reports whether an unexpired block exists for the address.
func (t *attemptTracker) IsIPBlocked(ctx context.Context, ip string) (bool, error) {
	if ip == "" {
		return false, nil
	}
	n, err := t.redis.Exists(ctx, t.blockKey(ip)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", errAnomalyBackend, err)
	}
	return n > 0, nil
}
