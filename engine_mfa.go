package authcore

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
)

// VerifyMFA runs exactly one second-factor verification path, selected by
// method from the client material the caller has available. Every path
// converges on the same [MFAResult] shape: a wrong code, an unknown
// device, or a bad assertion all come back as Verified=false with a nil
// error, so callers can show uniform "incorrect code" messaging. Errors
// are reserved for unreachable backends, unconfigured accounts, and
// unknown methods.
//
// Failed verifications feed the brute-force window consumed by
// [Engine.ScanSessionAnomalies].
func (e *Engine) VerifyMFA(ctx context.Context, ownerID string, method MFAMethod, payload MFAPayload) (MFAResult, error) {
	result := MFAResult{Method: method}

	if e == nil || e.store == nil {
		return result, ErrEngineNotReady
	}
	if ownerID == "" {
		return result, ErrUnauthorized
	}

	var (
		verified bool
		err      error
	)
	switch method {
	case MethodCode:
		verified, err = e.verifyCode(ctx, ownerID, payload.Code)
	case MethodRecovery:
		verified, err = e.verifyRecovery(ctx, ownerID, payload.Code)
	case MethodTrustedDevice:
		verified, err = e.verifyTrustedDevice(ctx, ownerID, payload.DeviceHash)
	case MethodWebAuthn:
		verified, err = e.verifyWebAuthn(ctx, ownerID, payload.Assertion)
	default:
		return result, ErrMFAMethodUnknown
	}
	if err != nil {
		return result, err
	}

	if !verified {
		e.metricInc(MetricMFAFailed)
		e.emitAudit(ctx, auditEventMFAFailed, false, ownerID, string(method), "", softFailure(method), nil)
		if recErr := e.attempts.RecordFailure(ctx, ownerID); recErr != nil {
			logStoreFailure("record mfa failure", recErr)
		}
		return result, nil
	}

	result.Verified = true
	e.metricInc(MetricMFAVerified)
	e.emitAudit(ctx, auditEventMFAVerified, true, ownerID, string(method), "", nil, nil)

	if e.tickets != nil {
		tkt, tErr := e.tickets.Issue(ownerID, string(method))
		if tErr != nil {
			return result, fmt.Errorf("%w: %v", ErrMFAUnavailable, tErr)
		}
		result.Ticket = tkt
	}
	return result, nil
}

// VerifyTicket checks a verification ticket previously returned by
// [Engine.VerifyMFA] and returns the owner it was issued to.
func (e *Engine) VerifyTicket(tokenStr string) (string, MFAMethod, error) {
	if e == nil {
		return "", "", ErrEngineNotReady
	}
	if e.tickets == nil {
		return "", "", ErrTicketDisabled
	}
	claims, err := e.tickets.Verify(tokenStr)
	if err != nil {
		return "", "", ErrUnauthorized
	}
	return claims.OwnerID, MFAMethod(claims.Method), nil
}

// softFailure annotates the audit trail for verifications that surface to
// the caller as a plain false result.
func softFailure(method MFAMethod) error {
	if method == MethodRecovery {
		return ErrRecoveryCodeInvalid
	}
	return nil
}

// verifyCode compares the supplied code against the account's server-held
// temporary value. The comparison is intentionally direct equality rather
// than a time-based derivation; the stored secret IS the expected code.
func (e *Engine) verifyCode(ctx context.Context, ownerID, code string) (bool, error) {
	secret, err := e.store.GetMFASecret(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMFAUnavailable, err)
	}
	if secret == nil || !secret.Enabled {
		return false, ErrMFANotConfigured
	}
	if code == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(secret.Secret), []byte(code)) == 1, nil
}

func (e *Engine) verifyRecovery(ctx context.Context, ownerID, code string) (bool, error) {
	ok, err := e.consumeRecoveryCode(ctx, ownerID, code)
	if err != nil {
		return false, err
	}
	if ok {
		e.metricInc(MetricRecoveryCodeUsed)
	} else {
		e.metricInc(MetricRecoveryCodeFailed)
	}
	return ok, nil
}

func (e *Engine) verifyTrustedDevice(ctx context.Context, ownerID, deviceHash string) (bool, error) {
	trusted, err := e.IsTrustedDevice(ctx, ownerID, deviceHash)
	if err != nil {
		return false, err
	}
	if trusted {
		e.metricInc(MetricTrustedDeviceBypass)
		e.emitAudit(ctx, auditEventTrustedDeviceBypass, true, ownerID, string(MethodTrustedDevice), "", nil, func() map[string]string {
			return map[string]string{"device_hash": deviceDigest(deviceHash)}
		})
	}
	return trusted, nil
}

func (e *Engine) verifyWebAuthn(ctx context.Context, ownerID string, assertion []byte) (bool, error) {
	creds, err := e.store.ListCredentials(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	if len(creds) == 0 {
		return false, ErrMFANotConfigured
	}

	_, err = e.completeAuthenticationForOwner(ctx, ownerID, assertion)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrSignatureInvalid),
		errors.Is(err, ErrChallengeInvalid),
		errors.Is(err, ErrUnknownCredential):
		return false, nil
	default:
		return false, err
	}
}
