package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"math/big"
	"strings"
)

// RecoveryCodeAlphabet avoids characters that read ambiguously when a user
// transcribes a printed code (no 0/O, 1/I/L).
const RecoveryCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewChallengeValue returns size cryptographically random bytes for use as
// a single-use ceremony challenge.
func NewChallengeValue(size int) ([]byte, error) {
	if size < 32 {
		return nil, errors.New("challenge size below minimum")
	}
	value := make([]byte, size)
	if _, err := rand.Read(value); err != nil {
		return nil, err
	}
	return value, nil
}

// ChallengeKeyDigest derives the lookup key for a challenge from its raw
// value. The raw value itself never appears in a Redis key.
func ChallengeKeyDigest(value []byte) string {
	sum := sha256.Sum256(value)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// NewRecoveryCode generates a random upper-case recovery code of the given
// length from [RecoveryCodeAlphabet].
func NewRecoveryCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(RecoveryCodeAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(RecoveryCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// FormatRecoveryCode inserts the display hyphen: ABCDEFGHJK -> ABCDE-FGHJK.
func FormatRecoveryCode(code string) string {
	n := len(code)
	if n < 8 {
		return code
	}
	mid := n / 2
	return code[:mid] + "-" + code[mid:]
}

// CanonicalizeRecoveryCode strips formatting so user input matches the
// generated form regardless of hyphens, spaces, or case.
func CanonicalizeRecoveryCode(code string) string {
	s := strings.ToUpper(strings.TrimSpace(code))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// RecoveryCodeHash binds the code hash to its owner so identical codes
// issued to different accounts never collide at rest.
func RecoveryCodeHash(ownerID, canonicalCode string) [32]byte {
	data := make([]byte, 0, len(ownerID)+1+len(canonicalCode))
	data = append(data, ownerID...)
	data = append(data, 0)
	data = append(data, canonicalCode...)
	return sha256.Sum256(data)
}

// UserHandle derives a stable, non-reversible authenticator user handle
// from the relying party and owner identifiers.
func UserHandle(rpID, ownerID string) string {
	data := make([]byte, 0, len(rpID)+1+len(ownerID))
	data = append(data, rpID...)
	data = append(data, 0)
	data = append(data, ownerID...)
	sum := sha256.Sum256(data)
	return base64.RawURLEncoding.EncodeToString(sum[:16])
}

// HashFingerprint digests a client-supplied device fingerprint so only
// the digest is stored or logged, never the raw environment string.
func HashFingerprint(v string) [32]byte {
	return sha256.Sum256([]byte(v))
}
