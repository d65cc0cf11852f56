package authcore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/halcyonsec/authcore/internal"
	"github.com/halcyonsec/authcore/webauthn"
)

// IssueRegistrationChallenge describes the issueregistrationchallenge operation and its observable behavior.
//
// IssueRegistrationChallenge may return an error when input validation, dependency calls, or security checks fail.
// IssueRegistrationChallenge does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IssueRegistrationChallenge(ctx context.Context, ownerID string) (*RegistrationChallenge, error) {
	if e == nil || e.challenges == nil {
		return nil, ErrEngineNotReady
	}
	if ownerID == "" {
		return nil, ErrUnauthorized
	}

	value, err := e.challenges.Issue(ctx, ownerID, PurposeRegistration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	e.metricInc(MetricChallengeIssued)

	return &RegistrationChallenge{
		Challenge:  value,
		RPID:       e.config.RelyingParty.ID,
		UserHandle: internal.UserHandle(e.config.RelyingParty.ID, ownerID),
	}, nil
}

// CompleteRegistration describes the completeregistration operation and its observable behavior.
//
// CompleteRegistration may return an error when input validation, dependency calls, or security checks fail.
// CompleteRegistration does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CompleteRegistration(ctx context.Context, ownerID, deviceName string, attestation []byte) (*Credential, error) {
	if e == nil || e.challenges == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if ownerID == "" {
		return nil, ErrUnauthorized
	}

	parsed, err := webauthn.ParseAttestation(attestation)
	if err != nil {
		e.metricInc(MetricRegistrationFailure)
		e.emitAudit(ctx, auditEventCredentialRegistered, false, ownerID, "", "", ErrAttestationInvalid, nil)
		return nil, ErrAttestationInvalid
	}

	// Consume before signature verification: a forged signature must still
	// burn exactly one registration attempt against this challenge.
	ok, err := e.challenges.Consume(ctx, ownerID, parsed.Challenge, PurposeRegistration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	if !ok {
		e.metricInc(MetricChallengeRejected)
		e.metricInc(MetricRegistrationFailure)
		e.emitAudit(ctx, auditEventCredentialRegistered, false, ownerID, "", "", ErrChallengeInvalid, nil)
		return nil, ErrChallengeInvalid
	}
	e.metricInc(MetricChallengeConsumed)

	if err := parsed.Verify(e.config.RelyingParty.ID); err != nil {
		e.metricInc(MetricRegistrationFailure)
		e.emitAudit(ctx, auditEventCredentialRegistered, false, ownerID, "", "", ErrAttestationInvalid, nil)
		return nil, ErrAttestationInvalid
	}

	cred := Credential{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		CredentialID: parsed.CredentialID,
		PublicKey:    append([]byte(nil), parsed.PublicKey...),
		DeviceName:   deviceName,
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.store.InsertCredential(ctx, cred); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}

	e.metricInc(MetricRegistrationSuccess)
	e.emitAudit(ctx, auditEventCredentialRegistered, true, ownerID, "", "", nil, func() map[string]string {
		return map[string]string{
			"credential_id": cred.CredentialID,
			"device_name":   deviceName,
		}
	})

	return &cred, nil
}
