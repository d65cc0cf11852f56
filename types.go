package authcore

import (
	"context"
	"time"
)

// ChallengePurpose distinguishes registration ceremonies from
// authentication ceremonies. A challenge issued for one purpose can never
// be consumed for the other.
type ChallengePurpose string

const (
	// PurposeRegistration is an exported constant or variable used by the security core.
	PurposeRegistration ChallengePurpose = "registration"
	// PurposeAuthentication is an exported constant or variable used by the security core.
	PurposeAuthentication ChallengePurpose = "authentication"
)

// Credential is a registered passkey-style authenticator, owned exclusively
// by OwnerID. CredentialID is the authenticator's public identifier and
// PublicKey the raw ed25519 verification key extracted from the attestation.
type Credential struct {
	ID           string
	OwnerID      string
	CredentialID string
	PublicKey    []byte
	DeviceName   string
	CreatedAt    time.Time
	LastUsedAt   time.Time
}

// MFASecret is the 1:1 per-account second-factor record. Secret holds the
// server-side temporary code the account's code verification compares
// against; it is never derived, only rotated by full re-setup.
type MFASecret struct {
	OwnerID string
	Secret  string
	Enabled bool
}

// RecoveryCodeRecord stores the SHA-256 hash of a single recovery code.
// The plaintext is never persisted. UsedAt is non-zero once the code has
// verified; a used code can never verify again.
type RecoveryCodeRecord struct {
	Hash   [32]byte
	UsedAt time.Time
}

// TrustedDevice marks a client-computed device fingerprint as allowed to
// bypass the second factor for its owner.
type TrustedDevice struct {
	OwnerID      string
	DeviceHash   string
	TrustedSince time.Time
}

// Session is an active or historical login session as recorded by the
// surrounding application. The core only reads sessions; it never creates
// or invalidates them.
type Session struct {
	ID         string
	OwnerID    string
	IPAddress  string
	UserAgent  string
	DeviceHash string
	LastActive time.Time
	IsActive   bool
}

// AlertType identifies the class of a persisted security alert.
type AlertType string

const (
	// AlertNewDevice is an exported constant or variable used by the security core.
	AlertNewDevice AlertType = "new_device"
	// AlertImpossibleTravel is an exported constant or variable used by the security core.
	AlertImpossibleTravel AlertType = "impossible_travel"
	// AlertMultipleFailures is an exported constant or variable used by the security core.
	AlertMultipleFailures AlertType = "multiple_failures"
)

// SecurityAlert is an append-only anomaly record. The core only inserts;
// resolution workflows belong to the surrounding application.
type SecurityAlert struct {
	ID        string
	OwnerID   string
	AlertType AlertType
	Metadata  map[string]string
	CreatedAt time.Time
}

// AnomalyReport is returned by [Engine.ScanSessionAnomalies]. Stale session
// IDs are reported but never alerted.
type AnomalyReport struct {
	SimultaneousSessions int
	NewDevice            bool
	SuspiciousLocation   bool
	RapidFailures        bool
	StaleSessionIDs      []string
}

// MFAMethod selects which verification path [Engine.VerifyMFA] attempts.
// Exactly one path runs per call.
type MFAMethod string

const (
	// MethodCode is an exported constant or variable used by the security core.
	MethodCode MFAMethod = "code"
	// MethodRecovery is an exported constant or variable used by the security core.
	MethodRecovery MFAMethod = "recovery"
	// MethodTrustedDevice is an exported constant or variable used by the security core.
	MethodTrustedDevice MFAMethod = "trusted_device"
	// MethodWebAuthn is an exported constant or variable used by the security core.
	MethodWebAuthn MFAMethod = "webauthn"
)

// MFAPayload carries the caller-selected client material for one
// verification path. Only the field matching the method is consulted.
type MFAPayload struct {
	Code       string
	DeviceHash string
	Assertion  []byte
}

// MFAResult is the uniform outcome of every verification path. Ticket is
// set only on success and only when ticket issuance is enabled.
type MFAResult struct {
	Verified bool
	Method   MFAMethod
	Ticket   string
}

// RegistrationChallenge is returned by [Engine.IssueRegistrationChallenge]
// for embedding in the client-side ceremony payload.
type RegistrationChallenge struct {
	Challenge  []byte
	RPID       string
	UserHandle string
}

// AuthenticationChallenge is returned by
// [Engine.IssueAuthenticationChallenge]. AllowedCredentialIDs is populated
// only when the owner is known up front.
type AuthenticationChallenge struct {
	Challenge            []byte
	AllowedCredentialIDs []string
}

// DataStore is the primary interface that callers must implement to give
// the core access to its durable collections: credentials, mfa_secrets,
// recovery_codes, trusted_devices, sessions, and security_alerts.
// Implementations must be safe for concurrent use; ConsumeRecoveryCode
// must be linearizable per record (no two concurrent callers may both
// observe an unused code and both succeed).
type DataStore interface {
	InsertCredential(ctx context.Context, cred Credential) error
	GetCredentialByCredentialID(ctx context.Context, credentialID string) (*Credential, error)
	ListCredentials(ctx context.Context, ownerID string) ([]Credential, error)
	DeleteCredential(ctx context.Context, id string) error
	TouchCredential(ctx context.Context, id string, usedAt time.Time) error

	GetMFASecret(ctx context.Context, ownerID string) (*MFASecret, error)

	ReplaceRecoveryCodes(ctx context.Context, ownerID string, records []RecoveryCodeRecord) error
	ConsumeRecoveryCode(ctx context.Context, ownerID string, hash [32]byte) (bool, error)

	InsertTrustedDevice(ctx context.Context, device TrustedDevice) error
	GetTrustedDevice(ctx context.Context, ownerID, deviceHash string) (*TrustedDevice, error)

	ActiveSessions(ctx context.Context, ownerID string) ([]Session, error)
	RecentSessions(ctx context.Context, ownerID string, limit int) ([]Session, error)

	InsertSecurityAlert(ctx context.Context, alert SecurityAlert) error
}

// Notification is handed to the configured [Notifier] when the core decides
// an outbound message is due. Delivery is entirely the caller's concern.
type Notification struct {
	OwnerID   string
	AlertType AlertType
	Metadata  map[string]string
}

// Notifier receives notification decisions. Implementations must not
// block; the core calls Notify synchronously from the anomaly scan.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
