package authcore

import (
	"context"
	"fmt"
	"time"

	"github.com/halcyonsec/authcore/webauthn"
)

// IssueAuthenticationChallenge describes the issueauthenticationchallenge operation and its observable behavior.
//
// IssueAuthenticationChallenge may return an error when input validation, dependency calls, or security checks fail.
// IssueAuthenticationChallenge does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IssueAuthenticationChallenge(ctx context.Context, ownerID string) (*AuthenticationChallenge, error) {
	if e == nil || e.challenges == nil {
		return nil, ErrEngineNotReady
	}

	value, err := e.challenges.Issue(ctx, ownerID, PurposeAuthentication)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	e.metricInc(MetricChallengeIssued)

	out := &AuthenticationChallenge{Challenge: value}
	if ownerID != "" && e.store != nil {
		creds, err := e.store.ListCredentials(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
		}
		for _, cred := range creds {
			out.AllowedCredentialIDs = append(out.AllowedCredentialIDs, cred.CredentialID)
		}
	}
	return out, nil
}

// CompleteAuthentication describes the completeauthentication operation and its observable behavior.
//
// CompleteAuthentication may return an error when input validation, dependency calls, or security checks fail.
// CompleteAuthentication does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CompleteAuthentication(ctx context.Context, assertion []byte) (string, error) {
	return e.completeAuthenticationForOwner(ctx, "", assertion)
}

// completeAuthenticationForOwner resolves and verifies an assertion. When
// expectOwner is non-empty the challenge must have been issued to that
// owner; otherwise the challenge must be anonymous and the owner is taken
// from the resolved credential.
func (e *Engine) completeAuthenticationForOwner(ctx context.Context, expectOwner string, assertion []byte) (string, error) {
	if e == nil || e.challenges == nil || e.store == nil {
		return "", ErrEngineNotReady
	}

	parsed, err := webauthn.ParseAssertion(assertion)
	if err != nil {
		e.metricInc(MetricAuthenticationFailure)
		e.emitAudit(ctx, auditEventAuthenticationFail, false, expectOwner, "", "", ErrSignatureInvalid, nil)
		return "", ErrSignatureInvalid
	}

	cred, err := e.store.GetCredentialByCredentialID(ctx, parsed.CredentialID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	if cred == nil {
		e.metricInc(MetricAuthenticationFailure)
		e.emitAudit(ctx, auditEventAuthenticationFail, false, expectOwner, "", "", ErrUnknownCredential, nil)
		return "", ErrUnknownCredential
	}
	if expectOwner != "" && cred.OwnerID != expectOwner {
		e.metricInc(MetricAuthenticationFailure)
		e.emitAudit(ctx, auditEventAuthenticationFail, false, expectOwner, "", "", ErrUnknownCredential, nil)
		return "", ErrUnknownCredential
	}

	ok, err := e.challenges.Consume(ctx, expectOwner, parsed.Challenge, PurposeAuthentication)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	if !ok {
		e.metricInc(MetricChallengeRejected)
		e.metricInc(MetricAuthenticationFailure)
		e.emitAudit(ctx, auditEventAuthenticationFail, false, cred.OwnerID, "", "", ErrChallengeInvalid, nil)
		return "", ErrChallengeInvalid
	}
	e.metricInc(MetricChallengeConsumed)

	if err := parsed.Verify(e.config.RelyingParty.ID, cred.PublicKey); err != nil {
		e.metricInc(MetricAuthenticationFailure)
		e.emitAudit(ctx, auditEventAuthenticationFail, false, cred.OwnerID, "", "", ErrSignatureInvalid, nil)
		return "", ErrSignatureInvalid
	}

	// Best-effort: a stale last_used_at never fails an authentication.
	if err := e.store.TouchCredential(ctx, cred.ID, time.Now().UTC()); err != nil {
		logStoreFailure("touch credential", err)
	}

	e.metricInc(MetricAuthenticationSuccess)
	e.emitAudit(ctx, auditEventAuthenticationOK, true, cred.OwnerID, "", "", nil, func() map[string]string {
		return map[string]string{"credential_id": cred.CredentialID}
	})

	return cred.OwnerID, nil
}

// ListCredentials describes the listcredentials operation and its observable behavior.
//
// ListCredentials may return an error when input validation, dependency calls, or security checks fail.
// ListCredentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ListCredentials(ctx context.Context, ownerID string) ([]Credential, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	creds, err := e.store.ListCredentials(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	return creds, nil
}

// DeleteCredential describes the deletecredential operation and its observable behavior.
//
// DeleteCredential may return an error when input validation, dependency calls, or security checks fail.
// DeleteCredential does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) DeleteCredential(ctx context.Context, callerID, credentialID string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if callerID == "" {
		return ErrUnauthorized
	}

	cred, err := e.store.GetCredentialByCredentialID(ctx, credentialID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	if cred == nil {
		return ErrUnknownCredential
	}
	if cred.OwnerID != callerID {
		e.emitAudit(ctx, auditEventCredentialDeleted, false, callerID, "", "", ErrUnauthorized, func() map[string]string {
			return map[string]string{"credential_id": credentialID}
		})
		return ErrUnauthorized
	}

	if err := e.store.DeleteCredential(ctx, cred.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}

	e.emitAudit(ctx, auditEventCredentialDeleted, true, callerID, "", "", nil, func() map[string]string {
		return map[string]string{"credential_id": credentialID}
	})
	return nil
}
