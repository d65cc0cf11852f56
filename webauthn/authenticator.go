package webauthn

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
)

// Authenticator is a software authenticator that produces valid ceremony
// payloads. It backs the package's own tests and client simulators; real
// deployments receive payloads from hardware or platform authenticators.
type Authenticator struct {
	credentialID string
	public       ed25519.PublicKey
	private      ed25519.PrivateKey
}

// NewAuthenticator generates a fresh ed25519 keypair with a random
// 16-byte credential identifier.
func NewAuthenticator() (*Authenticator, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	var id [16]byte
	if _, err := rand.Read(id[:]); err != nil {
		return nil, err
	}
	return &Authenticator{
		credentialID: base64.RawURLEncoding.EncodeToString(id[:]),
		public:       pub,
		private:      priv,
	}, nil
}

// CredentialID returns the authenticator's public credential identifier.
func (a *Authenticator) CredentialID() string {
	return a.credentialID
}

// PublicKey returns the authenticator's verification key.
func (a *Authenticator) PublicKey() ed25519.PublicKey {
	return a.public
}

// Attest produces a registration attestation bound to rpID and challenge.
func (a *Authenticator) Attest(rpID string, challenge []byte) ([]byte, error) {
	sig := ed25519.Sign(a.private, SignedMessage(rpID, challenge))
	return json.Marshal(Attestation{
		CredentialID: a.credentialID,
		PublicKey:    base64.RawURLEncoding.EncodeToString(a.public),
		Challenge:    base64.RawURLEncoding.EncodeToString(challenge),
		Signature:    base64.RawURLEncoding.EncodeToString(sig),
	})
}

// Assert produces an authentication assertion bound to rpID and challenge.
func (a *Authenticator) Assert(rpID string, challenge []byte) ([]byte, error) {
	sig := ed25519.Sign(a.private, SignedMessage(rpID, challenge))
	return json.Marshal(Assertion{
		CredentialID: a.credentialID,
		Challenge:    base64.RawURLEncoding.EncodeToString(challenge),
		Signature:    base64.RawURLEncoding.EncodeToString(sig),
	})
}
