package authcore

import (
	"errors"
	"time"
)

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	RelyingParty  RelyingPartyConfig
	Challenge     ChallengeConfig
	RateLimit     RateLimitConfig
	Recovery      RecoveryConfig
	TrustedDevice TrustedDeviceConfig
	Anomaly       AnomalyConfig
	Ticket        TicketConfig
	Audit         AuditConfig
	Metrics       MetricsConfig
}

/*
====================================
RELYING PARTY CONFIG
====================================
*/

// RelyingPartyConfig identifies the serving domain that passkey ceremonies
// are scoped to. ID is required.
type RelyingPartyConfig struct {
	ID   string
	Name string
}

/*
====================================
CHALLENGE CONFIG
====================================
*/

// ChallengeConfig defines a public type used by authcore APIs.
//
// ChallengeConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ChallengeConfig struct {
	TTL         time.Duration
	ValueSize   int
	RedisPrefix string
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig defines a public type used by authcore APIs.
//
// RateLimitConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
	RedisPrefix string
}

/*
====================================
RECOVERY CONFIG
====================================
*/

// RecoveryConfig defines a public type used by authcore APIs.
//
// RecoveryConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RecoveryConfig struct {
	CodeCount  int
	CodeLength int
}

/*
====================================
TRUSTED DEVICE CONFIG
====================================
*/

// TrustedDeviceConfig defines a public type used by authcore APIs.
//
// TrustTTL of zero means trust never expires, matching the historical
// behavior of the system this core replaces.
type TrustedDeviceConfig struct {
	TrustTTL time.Duration
}

/*
====================================
ANOMALY CONFIG
====================================
*/

// AnomalyConfig defines a public type used by authcore APIs.
//
// AnomalyConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AnomalyConfig struct {
	MaxDistinctIPs     int
	RecentSessionCount int
	StaleSessionAge    time.Duration
	FailureWindow      time.Duration
	FailureThreshold   int
	IPBlockTTL         time.Duration
	RedisPrefix        string
}

/*
====================================
TICKET CONFIG
====================================
*/

// TicketConfig defines a public type used by authcore APIs.
//
// When Enabled, successful MFA verification returns a signed short-lived
// ticket the surrounding application can use as proof of second-factor
// completion.
type TicketConfig struct {
	Enabled       bool
	TTL           time.Duration
	SigningMethod string // "ed25519" (default), "hs256" optional
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by authcore APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by authcore APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Challenge: ChallengeConfig{
			TTL:         5 * time.Minute,
			ValueSize:   32,
			RedisPrefix: "acch",
		},
		RateLimit: RateLimitConfig{
			MaxAttempts: 3,
			Window:      15 * time.Minute,
			RedisPrefix: "acrl",
		},
		Recovery: RecoveryConfig{
			CodeCount:  8,
			CodeLength: 10,
		},
		TrustedDevice: TrustedDeviceConfig{
			TrustTTL: 0,
		},
		Anomaly: AnomalyConfig{
			MaxDistinctIPs:     2,
			RecentSessionCount: 5,
			StaleSessionAge:    30 * 24 * time.Hour,
			FailureWindow:      60 * time.Second,
			FailureThreshold:   5,
			IPBlockTTL:         time.Hour,
			RedisPrefix:        "acan",
		},
		Ticket: TicketConfig{
			Enabled:       false,
			TTL:           5 * time.Minute,
			SigningMethod: "ed25519",
			Issuer:        "authcore",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// DefaultConfig returns the baseline configuration used by [Builder] when
// no explicit config is supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Ticket.PrivateKey = append([]byte(nil), cfg.Ticket.PrivateKey...)
	out.Ticket.PublicKey = append([]byte(nil), cfg.Ticket.PublicKey...)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.RelyingParty.ID == "" {
		return errors.New("relying party id required")
	}
	if c.Challenge.TTL <= 0 {
		return errors.New("challenge TTL must be positive")
	}
	if c.Challenge.ValueSize < 32 {
		return errors.New("challenge value size must be at least 32 bytes")
	}
	if c.RateLimit.MaxAttempts <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit attempts and window must be positive")
	}
	if c.Recovery.CodeCount <= 0 || c.Recovery.CodeLength < 8 {
		return errors.New("recovery codes require a positive count and length >= 8")
	}
	if c.TrustedDevice.TrustTTL < 0 {
		return errors.New("trusted device TTL must not be negative")
	}
	if c.Anomaly.MaxDistinctIPs <= 0 ||
		c.Anomaly.RecentSessionCount <= 0 ||
		c.Anomaly.StaleSessionAge <= 0 ||
		c.Anomaly.FailureWindow <= 0 ||
		c.Anomaly.FailureThreshold <= 0 ||
		c.Anomaly.IPBlockTTL <= 0 {
		return errors.New("anomaly thresholds must be positive")
	}
	if c.Ticket.Enabled {
		if c.Ticket.TTL <= 0 {
			return errors.New("ticket TTL must be positive")
		}
		switch c.Ticket.SigningMethod {
		case "ed25519", "hs256":
		default:
			return errors.New("unsupported ticket signing method")
		}
		if len(c.Ticket.PrivateKey) == 0 {
			return errors.New("ticket signing requires a private key")
		}
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}
	return nil
}
