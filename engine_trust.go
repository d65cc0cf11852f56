package authcore

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/halcyonsec/authcore/internal"
)

// deviceDigest derives the at-rest key for a client fingerprint. Raw
// environment fingerprints can embed identifying detail, so only the
// digest is stored, compared, and written to the audit trail.
func deviceDigest(deviceHash string) string {
	sum := internal.HashFingerprint(deviceHash)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// TrustDevice records a client-computed device fingerprint as a
// second-factor bypass for the owner. The insert is idempotent: trusting
// an already-trusted device keeps the original trusted_since.
func (e *Engine) TrustDevice(ctx context.Context, ownerID, deviceHash string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if ownerID == "" {
		return ErrUnauthorized
	}
	if deviceHash == "" {
		return fmt.Errorf("%w: empty device hash", ErrUnauthorized)
	}

	digest := deviceDigest(deviceHash)
	err := e.store.InsertTrustedDevice(ctx, TrustedDevice{
		OwnerID:      ownerID,
		DeviceHash:   digest,
		TrustedSince: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTrustUnavailable, err)
	}

	e.emitAudit(ctx, auditEventDeviceTrusted, true, ownerID, "", "", nil, func() map[string]string {
		return map[string]string{"device_hash": digest}
	})
	return nil
}

// IsTrustedDevice reports whether the exact owner/fingerprint pair is on
// record and, when a trust TTL is configured, still within it. Lookup
// never mutates the record. The fingerprint is treated as an opaque
// string; its entropy and stability are the client's problem.
func (e *Engine) IsTrustedDevice(ctx context.Context, ownerID, deviceHash string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}
	if ownerID == "" || deviceHash == "" {
		return false, nil
	}

	device, err := e.store.GetTrustedDevice(ctx, ownerID, deviceDigest(deviceHash))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTrustUnavailable, err)
	}
	if device == nil {
		return false, nil
	}

	if ttl := e.config.TrustedDevice.TrustTTL; ttl > 0 {
		if time.Since(device.TrustedSince) > ttl {
			return false, nil
		}
	}
	return true, nil
}
