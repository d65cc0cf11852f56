// Package webauthn implements the simplified passkey ceremony payloads the
// security core exchanges with clients: a registration attestation carrying
// a fresh ed25519 public key, and an authentication assertion proving
// possession of a previously registered key.
//
// # Ceremony binding
//
// Both payload kinds sign the message rpID || 0x00 || challenge, scoping
// the signature to the relying party and to a single-use server challenge.
// This is a deliberate stand-in for the full W3C attestation formats: the
// wire shape is compact JSON, not CBOR, and attestation is always
// self-attestation.
//
// # What this package must NOT do
//
//   - Issue, persist, or consume challenges (the core's challenge store does).
//   - Decide ownership or policy — it only parses and verifies signatures.
package webauthn
