package authcore

import "sync/atomic"

// MetricID defines a public type used by authcore APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricChallengeIssued is an exported constant or variable used by the security core.
	MetricChallengeIssued MetricID = iota
	// MetricChallengeConsumed is an exported constant or variable used by the security core.
	MetricChallengeConsumed
	// MetricChallengeRejected is an exported constant or variable used by the security core.
	MetricChallengeRejected
	// MetricRegistrationSuccess is an exported constant or variable used by the security core.
	MetricRegistrationSuccess
	// MetricRegistrationFailure is an exported constant or variable used by the security core.
	MetricRegistrationFailure
	// MetricAuthenticationSuccess is an exported constant or variable used by the security core.
	MetricAuthenticationSuccess
	// MetricAuthenticationFailure is an exported constant or variable used by the security core.
	MetricAuthenticationFailure
	// MetricMFAVerified is an exported constant or variable used by the security core.
	MetricMFAVerified
	// MetricMFAFailed is an exported constant or variable used by the security core.
	MetricMFAFailed
	// MetricTrustedDeviceBypass is an exported constant or variable used by the security core.
	MetricTrustedDeviceBypass
	// MetricRecoveryCodeUsed is an exported constant or variable used by the security core.
	MetricRecoveryCodeUsed
	// MetricRecoveryCodeFailed is an exported constant or variable used by the security core.
	MetricRecoveryCodeFailed
	// MetricRateLimitHit is an exported constant or variable used by the security core.
	MetricRateLimitHit
	// MetricAnomalyScan is an exported constant or variable used by the security core.
	MetricAnomalyScan
	// MetricAlertEmitted is an exported constant or variable used by the security core.
	MetricAlertEmitted
	// MetricIPBlocked is an exported constant or variable used by the security core.
	MetricIPBlocked
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by authcore APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot defines a public type used by authcore APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics may return an error when input validation, dependency calls, or security checks fail.
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled describes the enabled operation and its observable behavior.
//
// Enabled may return an error when input validation, dependency calls, or security checks fail.
// Enabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc describes the inc operation and its observable behavior.
//
// Inc may return an error when input validation, dependency calls, or security checks fail.
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot may return an error when input validation, dependency calls, or security checks fail.
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, metricIDCount),
	}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snap
}
