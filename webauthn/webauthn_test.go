package webauthn

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
)

func testChallenge(t *testing.T) []byte {
	t.Helper()
	challenge := make([]byte, 32)
	if _, err := rand.Read(challenge); err != nil {
		t.Fatalf("rand failed: %v", err)
	}
	return challenge
}

func TestAttestationRoundTrip(t *testing.T) {
	auth, err := NewAuthenticator()
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}
	challenge := testChallenge(t)

	raw, err := auth.Attest("example.test", challenge)
	if err != nil {
		t.Fatalf("Attest failed: %v", err)
	}

	parsed, err := ParseAttestation(raw)
	if err != nil {
		t.Fatalf("ParseAttestation failed: %v", err)
	}
	if parsed.CredentialID != auth.CredentialID() {
		t.Fatalf("credential id mismatch: %q != %q", parsed.CredentialID, auth.CredentialID())
	}
	if !bytes.Equal(parsed.Challenge, challenge) {
		t.Fatal("challenge mismatch")
	}
	if !parsed.PublicKey.Equal(auth.PublicKey()) {
		t.Fatal("public key mismatch")
	}

	if err := parsed.Verify("example.test"); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if err := parsed.Verify("evil.test"); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature for wrong rpID, got %v", err)
	}
}

func TestAssertionRoundTrip(t *testing.T) {
	auth, err := NewAuthenticator()
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}
	challenge := testChallenge(t)

	raw, err := auth.Assert("example.test", challenge)
	if err != nil {
		t.Fatalf("Assert failed: %v", err)
	}

	parsed, err := ParseAssertion(raw)
	if err != nil {
		t.Fatalf("ParseAssertion failed: %v", err)
	}
	if err := parsed.Verify("example.test", auth.PublicKey()); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	other, err := NewAuthenticator()
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}
	if err := parsed.Verify("example.test", other.PublicKey()); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature for wrong key, got %v", err)
	}
}

func TestSignedMessageBindsBothParts(t *testing.T) {
	a := SignedMessage("rp", []byte("abc"))
	b := SignedMessage("rpa", []byte("bc"))
	if bytes.Equal(a, b) {
		t.Fatal("ambiguous message encoding: rpID and challenge must be separated")
	}
}

func TestParseAttestationRejectsMalformed(t *testing.T) {
	auth, err := NewAuthenticator()
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}
	good, err := auth.Attest("example.test", testChallenge(t))
	if err != nil {
		t.Fatalf("Attest failed: %v", err)
	}

	mutate := func(fn func(att *Attestation)) []byte {
		var att Attestation
		if err := json.Unmarshal(good, &att); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		fn(&att)
		raw, err := json.Marshal(att)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		return raw
	}

	cases := map[string][]byte{
		"not json":       []byte("{"),
		"empty":          []byte("{}"),
		"no credential":  mutate(func(att *Attestation) { att.CredentialID = "" }),
		"no challenge":   mutate(func(att *Attestation) { att.Challenge = "" }),
		"bad base64":     mutate(func(att *Attestation) { att.Signature = "!!!" }),
		"short key":      mutate(func(att *Attestation) { att.PublicKey = base64.RawURLEncoding.EncodeToString([]byte("short")) }),
		"short sig":      mutate(func(att *Attestation) { att.Signature = base64.RawURLEncoding.EncodeToString([]byte("short")) }),
		"padded base64": mutate(func(att *Attestation) { att.Challenge = att.Challenge + "==" }),
	}
	for name, raw := range cases {
		if _, err := ParseAttestation(raw); !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("%s: expected ErrMalformedPayload, got %v", name, err)
		}
	}
}

func TestParseAssertionRejectsMalformed(t *testing.T) {
	cases := map[string][]byte{
		"not json":      []byte("not json"),
		"empty":         []byte("{}"),
		"no signature":  []byte(`{"credential_id":"abc","challenge":"YWJj"}`),
		"short sig":     []byte(`{"credential_id":"abc","challenge":"YWJj","signature":"YWJj"}`),
		"no credential": []byte(`{"challenge":"YWJj","signature":"YWJj"}`),
	}
	for name, raw := range cases {
		if _, err := ParseAssertion(raw); !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("%s: expected ErrMalformedPayload, got %v", name, err)
		}
	}
}

func TestAssertionVerifyRejectsBadKeyLength(t *testing.T) {
	auth, err := NewAuthenticator()
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}
	raw, err := auth.Assert("example.test", testChallenge(t))
	if err != nil {
		t.Fatalf("Assert failed: %v", err)
	}
	parsed, err := ParseAssertion(raw)
	if err != nil {
		t.Fatalf("ParseAssertion failed: %v", err)
	}
	if err := parsed.Verify("example.test", ed25519.PublicKey("short")); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}
