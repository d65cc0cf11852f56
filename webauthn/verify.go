package webauthn

import "crypto/ed25519"

// SignedMessage builds the byte string both ceremony signatures cover.
func SignedMessage(rpID string, challenge []byte) []byte {
	msg := make([]byte, 0, len(rpID)+1+len(challenge))
	msg = append(msg, rpID...)
	msg = append(msg, 0)
	msg = append(msg, challenge...)
	return msg
}

// Verify checks the attestation's self-signature against its embedded
// public key, scoped to rpID.
func (a *ParsedAttestation) Verify(rpID string) error {
	if !ed25519.Verify(a.PublicKey, SignedMessage(rpID, a.Challenge), a.Signature) {
		return ErrBadSignature
	}
	return nil
}

// Verify checks the assertion signature against the registered public key,
// scoped to rpID.
func (a *ParsedAssertion) Verify(rpID string, publicKey ed25519.PublicKey) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return ErrBadSignature
	}
	if !ed25519.Verify(publicKey, SignedMessage(rpID, a.Challenge), a.Signature) {
		return ErrBadSignature
	}
	return nil
}
