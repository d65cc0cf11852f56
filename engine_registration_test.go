package authcore

import (
	"context"
	"errors"
	"testing"

	"github.com/halcyonsec/authcore/webauthn"
)

func registerCredential(t *testing.T, engine *Engine, ownerID, deviceName string) (*webauthn.Authenticator, *Credential) {
	t.Helper()
	ctx := context.Background()

	auth, err := webauthn.NewAuthenticator()
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}

	reg, err := engine.IssueRegistrationChallenge(ctx, ownerID)
	if err != nil {
		t.Fatalf("IssueRegistrationChallenge failed: %v", err)
	}

	attestation, err := auth.Attest(reg.RPID, reg.Challenge)
	if err != nil {
		t.Fatalf("Attest failed: %v", err)
	}

	cred, err := engine.CompleteRegistration(ctx, ownerID, deviceName, attestation)
	if err != nil {
		t.Fatalf("CompleteRegistration failed: %v", err)
	}
	return auth, cred
}

func TestIssueRegistrationChallenge(t *testing.T) {
	engine, _, done := newTestEngine(t, testConfig(), newMockDataStore())
	defer done()

	reg, err := engine.IssueRegistrationChallenge(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("IssueRegistrationChallenge failed: %v", err)
	}
	if len(reg.Challenge) < 32 {
		t.Fatalf("challenge too short: %d bytes", len(reg.Challenge))
	}
	if reg.RPID != "example.test" {
		t.Fatalf("unexpected rpID: %q", reg.RPID)
	}
	if reg.UserHandle == "" {
		t.Fatal("expected a user handle")
	}

	if _, err := engine.IssueRegistrationChallenge(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty owner, got %v", err)
	}
}

func TestCompleteRegistrationStoresCredential(t *testing.T) {
	store := newMockDataStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	auth, cred := registerCredential(t, engine, "user-1", "laptop")

	if cred.CredentialID != auth.CredentialID() {
		t.Fatalf("credential id mismatch: %q != %q", cred.CredentialID, auth.CredentialID())
	}
	if cred.OwnerID != "user-1" || cred.DeviceName != "laptop" {
		t.Fatalf("unexpected credential: %+v", cred)
	}

	listed, err := engine.ListCredentials(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListCredentials failed: %v", err)
	}
	if len(listed) != 1 || listed[0].CredentialID != auth.CredentialID() {
		t.Fatalf("unexpected listing: %+v", listed)
	}
}

func TestCompleteRegistrationRejectsMalformedAttestation(t *testing.T) {
	engine, _, done := newTestEngine(t, testConfig(), newMockDataStore())
	defer done()

	_, err := engine.CompleteRegistration(context.Background(), "user-1", "laptop", []byte("not json"))
	if !errors.Is(err, ErrAttestationInvalid) {
		t.Fatalf("expected ErrAttestationInvalid, got %v", err)
	}
}

func TestCompleteRegistrationRejectsForeignChallenge(t *testing.T) {
	engine, _, done := newTestEngine(t, testConfig(), newMockDataStore())
	defer done()
	ctx := context.Background()

	auth, err := webauthn.NewAuthenticator()
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}

	reg, err := engine.IssueRegistrationChallenge(ctx, "user-1")
	if err != nil {
		t.Fatalf("IssueRegistrationChallenge failed: %v", err)
	}
	attestation, err := auth.Attest(reg.RPID, reg.Challenge)
	if err != nil {
		t.Fatalf("Attest failed: %v", err)
	}

	// Another account cannot complete with user-1's challenge.
	if _, err := engine.CompleteRegistration(ctx, "user-2", "laptop", attestation); !errors.Is(err, ErrChallengeInvalid) {
		t.Fatalf("expected ErrChallengeInvalid, got %v", err)
	}
}

func TestCompleteRegistrationBurnsChallengeOnBadSignature(t *testing.T) {
	engine, _, done := newTestEngine(t, testConfig(), newMockDataStore())
	defer done()
	ctx := context.Background()

	auth, err := webauthn.NewAuthenticator()
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}

	reg, err := engine.IssueRegistrationChallenge(ctx, "user-1")
	if err != nil {
		t.Fatalf("IssueRegistrationChallenge failed: %v", err)
	}

	// Signed for the wrong relying party: the signature check fails after
	// the challenge has already been consumed.
	attestation, err := auth.Attest("evil.test", reg.Challenge)
	if err != nil {
		t.Fatalf("Attest failed: %v", err)
	}
	if _, err := engine.CompleteRegistration(ctx, "user-1", "laptop", attestation); !errors.Is(err, ErrAttestationInvalid) {
		t.Fatalf("expected ErrAttestationInvalid, got %v", err)
	}

	// The failed attempt spent the challenge.
	good, err := auth.Attest(reg.RPID, reg.Challenge)
	if err != nil {
		t.Fatalf("Attest failed: %v", err)
	}
	if _, err := engine.CompleteRegistration(ctx, "user-1", "laptop", good); !errors.Is(err, ErrChallengeInvalid) {
		t.Fatalf("expected ErrChallengeInvalid after burned challenge, got %v", err)
	}
}

func TestCompleteRegistrationReplay(t *testing.T) {
	engine, _, done := newTestEngine(t, testConfig(), newMockDataStore())
	defer done()
	ctx := context.Background()

	auth, err := webauthn.NewAuthenticator()
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}
	reg, err := engine.IssueRegistrationChallenge(ctx, "user-1")
	if err != nil {
		t.Fatalf("IssueRegistrationChallenge failed: %v", err)
	}
	attestation, err := auth.Attest(reg.RPID, reg.Challenge)
	if err != nil {
		t.Fatalf("Attest failed: %v", err)
	}

	if _, err := engine.CompleteRegistration(ctx, "user-1", "laptop", attestation); err != nil {
		t.Fatalf("CompleteRegistration failed: %v", err)
	}
	if _, err := engine.CompleteRegistration(ctx, "user-1", "laptop", attestation); !errors.Is(err, ErrChallengeInvalid) {
		t.Fatalf("expected replay to fail with ErrChallengeInvalid, got %v", err)
	}
}
