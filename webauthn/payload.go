package webauthn

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
)

var (
	// ErrMalformedPayload is an exported constant or variable used by the security core.
	ErrMalformedPayload = errors.New("malformed ceremony payload")
	// ErrBadSignature is an exported constant or variable used by the security core.
	ErrBadSignature = errors.New("ceremony signature invalid")
)

// Attestation is the authenticator's registration response. PublicKey is
// the new ed25519 verification key; Signature covers
// rpID || 0x00 || Challenge and proves possession of the matching private
// key (self-attestation).
type Attestation struct {
	CredentialID string `json:"credential_id"`
	PublicKey    string `json:"public_key"`
	Challenge    string `json:"challenge"`
	Signature    string `json:"signature"`
}

// Assertion is the authenticator's authentication response. Signature
// covers rpID || 0x00 || Challenge with the key registered under
// CredentialID.
type Assertion struct {
	CredentialID string `json:"credential_id"`
	Challenge    string `json:"challenge"`
	Signature    string `json:"signature"`
}

// ParsedAttestation is the decoded form of an [Attestation] with all
// base64url fields expanded to raw bytes.
type ParsedAttestation struct {
	CredentialID string
	PublicKey    ed25519.PublicKey
	Challenge    []byte
	Signature    []byte
}

// ParsedAssertion is the decoded form of an [Assertion].
type ParsedAssertion struct {
	CredentialID string
	Challenge    []byte
	Signature    []byte
}

// ParseAttestation decodes and structurally validates a registration
// payload. It does not verify the signature; see
// [ParsedAttestation.Verify].
func ParseAttestation(raw []byte) (*ParsedAttestation, error) {
	var att Attestation
	if err := json.Unmarshal(raw, &att); err != nil {
		return nil, ErrMalformedPayload
	}
	if att.CredentialID == "" {
		return nil, ErrMalformedPayload
	}

	key, err := decodeField(att.PublicKey)
	if err != nil || len(key) != ed25519.PublicKeySize {
		return nil, ErrMalformedPayload
	}
	challenge, err := decodeField(att.Challenge)
	if err != nil || len(challenge) == 0 {
		return nil, ErrMalformedPayload
	}
	sig, err := decodeField(att.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return nil, ErrMalformedPayload
	}

	return &ParsedAttestation{
		CredentialID: att.CredentialID,
		PublicKey:    ed25519.PublicKey(key),
		Challenge:    challenge,
		Signature:    sig,
	}, nil
}

// ParseAssertion decodes and structurally validates an authentication
// payload.
func ParseAssertion(raw []byte) (*ParsedAssertion, error) {
	var asrt Assertion
	if err := json.Unmarshal(raw, &asrt); err != nil {
		return nil, ErrMalformedPayload
	}
	if asrt.CredentialID == "" {
		return nil, ErrMalformedPayload
	}

	challenge, err := decodeField(asrt.Challenge)
	if err != nil || len(challenge) == 0 {
		return nil, ErrMalformedPayload
	}
	sig, err := decodeField(asrt.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return nil, ErrMalformedPayload
	}

	return &ParsedAssertion{
		CredentialID: asrt.CredentialID,
		Challenge:    challenge,
		Signature:    sig,
	}, nil
}

func decodeField(s string) ([]byte, error) {
	if s == "" {
		return nil, ErrMalformedPayload
	}
	return base64.RawURLEncoding.DecodeString(s)
}
