package authcore

import "time"

// SecurityReport is a read-only snapshot of the engine's security posture,
// derived from the active configuration.
type SecurityReport struct {
	RelyingPartyID       string
	ChallengeTTL         time.Duration
	ChallengeValueSize   int
	RateLimitMaxAttempts int
	RateLimitWindow      time.Duration
	RecoveryCodeCount    int
	RecoveryCodeLength   int
	TrustedDeviceTTL     time.Duration
	PermanentDeviceTrust bool
	FailureThreshold     int
	FailureWindow        time.Duration
	IPBlockTTL           time.Duration
	TicketsEnabled       bool
	TicketSigningMethod  string
	AuditEnabled         bool
	MetricsEnabled       bool
}

// SecurityReport describes the securityreport operation and its observable behavior.
//
// SecurityReport may return an error when input validation, dependency calls, or security checks fail.
// SecurityReport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	return SecurityReport{
		RelyingPartyID:       e.config.RelyingParty.ID,
		ChallengeTTL:         e.config.Challenge.TTL,
		ChallengeValueSize:   e.config.Challenge.ValueSize,
		RateLimitMaxAttempts: e.config.RateLimit.MaxAttempts,
		RateLimitWindow:      e.config.RateLimit.Window,
		RecoveryCodeCount:    e.config.Recovery.CodeCount,
		RecoveryCodeLength:   e.config.Recovery.CodeLength,
		TrustedDeviceTTL:     e.config.TrustedDevice.TrustTTL,
		PermanentDeviceTrust: e.config.TrustedDevice.TrustTTL == 0,
		FailureThreshold:     e.config.Anomaly.FailureThreshold,
		FailureWindow:        e.config.Anomaly.FailureWindow,
		IPBlockTTL:           e.config.Anomaly.IPBlockTTL,
		TicketsEnabled:       e.config.Ticket.Enabled,
		TicketSigningMethod:  e.config.Ticket.SigningMethod,
		AuditEnabled:         e.config.Audit.Enabled,
		MetricsEnabled:       e.config.Metrics.Enabled,
	}
}
