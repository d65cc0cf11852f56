package authcore

import "errors"

var (
	// ErrUnauthorized is an exported constant or variable used by the security core.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEngineNotReady is an exported constant or variable used by the security core.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrChallengeInvalid is an exported constant or variable used by the security core.
	ErrChallengeInvalid = errors.New("challenge missing, expired, consumed, or owner mismatch")
	// ErrChallengeUnavailable is an exported constant or variable used by the security core.
	ErrChallengeUnavailable = errors.New("challenge backend unavailable")
	// ErrAttestationInvalid is an exported constant or variable used by the security core.
	ErrAttestationInvalid = errors.New("attestation could not be parsed or verified")
	// ErrSignatureInvalid is an exported constant or variable used by the security core.
	ErrSignatureInvalid = errors.New("assertion signature verification failed")
	// ErrUnknownCredential is an exported constant or variable used by the security core.
	ErrUnknownCredential = errors.New("credential not registered")
	// ErrCredentialUnavailable is an exported constant or variable used by the security core.
	ErrCredentialUnavailable = errors.New("credential backend unavailable")
	// ErrRecoveryCodeInvalid is an exported constant or variable used by the security core.
	ErrRecoveryCodeInvalid = errors.New("invalid or already-used recovery code")
	// ErrRecoveryUnavailable is an exported constant or variable used by the security core.
	ErrRecoveryUnavailable = errors.New("recovery code backend unavailable")
	// ErrMFANotConfigured is an exported constant or variable used by the security core.
	ErrMFANotConfigured = errors.New("mfa not configured for account")
	// ErrMFAMethodUnknown is an exported constant or variable used by the security core.
	ErrMFAMethodUnknown = errors.New("unknown mfa method")
	// ErrMFAUnavailable is an exported constant or variable used by the security core.
	ErrMFAUnavailable = errors.New("mfa backend unavailable")
	// ErrRateLimited is an exported constant or variable used by the security core.
	ErrRateLimited = errors.New("rate limited")
	// ErrRateLimiterUnavailable is an exported constant or variable used by the security core.
	ErrRateLimiterUnavailable = errors.New("rate limiter backend unavailable")
	// ErrTrustUnavailable is an exported constant or variable used by the security core.
	ErrTrustUnavailable = errors.New("trusted device backend unavailable")
	// ErrStoreUnavailable is an exported constant or variable used by the security core.
	ErrStoreUnavailable = errors.New("data store unavailable")
	// ErrTicketDisabled is an exported constant or variable used by the security core.
	ErrTicketDisabled = errors.New("verification tickets disabled")
)
