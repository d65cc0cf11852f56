// Package ticket issues and verifies the short-lived signed tokens that
// prove a second factor was completed. The surrounding application attaches
// a ticket to the session upgrade it performs after MFA, so that proof of
// verification survives the hop between the security core and the session
// layer without shared mutable state.
//
// Tickets are JWTs signed with ed25519 (default) or HS256, carrying the
// owner id, the MFA method that succeeded, and a TTL of a few minutes.
package ticket
