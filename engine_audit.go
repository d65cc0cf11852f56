package authcore

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventCredentialRegistered = "credential_registered"
	auditEventCredentialDeleted    = "credential_deleted"
	auditEventAuthenticationOK     = "authentication_success"
	auditEventAuthenticationFail   = "authentication_failure"
	auditEventMFAVerified          = "mfa_verified"
	auditEventMFAFailed            = "mfa_failed"
	auditEventTrustedDeviceBypass  = "trusted_device_bypass"
	auditEventDeviceTrusted        = "device_trusted"
	auditEventRecoveryCodesIssued  = "recovery_codes_issued"
	auditEventRateLimitTriggered   = "rate_limit_triggered"
	auditEventAnomalyAlert         = "anomaly_alert"
	auditEventIPBlocked            = "ip_blocked"
)

// AuditErrorCode defines a public type used by authcore APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrUnauthorized       AuditErrorCode = "unauthorized"
	auditErrChallengeInvalid   AuditErrorCode = "challenge_invalid"
	auditErrAttestationInvalid AuditErrorCode = "attestation_invalid"
	auditErrSignatureInvalid   AuditErrorCode = "signature_invalid"
	auditErrUnknownCredential  AuditErrorCode = "unknown_credential"
	auditErrRecoveryInvalid    AuditErrorCode = "recovery_code_invalid"
	auditErrMFANotConfigured   AuditErrorCode = "mfa_not_configured"
	auditErrMFAMethodUnknown   AuditErrorCode = "mfa_method_unknown"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	ownerID string,
	method string,
	ip string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		OwnerID:   ownerID,
		Method:    method,
		IP:        ip,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) emitRateLimit(ctx context.Context, scope string) {
	e.metricInc(MetricRateLimitHit)
	e.emitAudit(ctx, auditEventRateLimitTriggered, false, "", "", "", ErrRateLimited, func() map[string]string {
		return map[string]string{"scope": scope}
	})
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return auditErrUnauthorized
	case errors.Is(err, ErrChallengeInvalid):
		return auditErrChallengeInvalid
	case errors.Is(err, ErrAttestationInvalid):
		return auditErrAttestationInvalid
	case errors.Is(err, ErrSignatureInvalid):
		return auditErrSignatureInvalid
	case errors.Is(err, ErrUnknownCredential):
		return auditErrUnknownCredential
	case errors.Is(err, ErrRecoveryCodeInvalid):
		return auditErrRecoveryInvalid
	case errors.Is(err, ErrMFANotConfigured):
		return auditErrMFANotConfigured
	case errors.Is(err, ErrMFAMethodUnknown):
		return auditErrMFAMethodUnknown
	case errors.Is(err, ErrRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrChallengeUnavailable),
		errors.Is(err, ErrCredentialUnavailable),
		errors.Is(err, ErrRecoveryUnavailable),
		errors.Is(err, ErrMFAUnavailable),
		errors.Is(err, ErrTrustUnavailable),
		errors.Is(err, ErrRateLimiterUnavailable),
		errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
