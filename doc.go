// Package authcore provides the security core layered on top of a primary
// password identity provider: passkey-style credential ceremonies, multi-factor
// verification (temporary codes, recovery codes, trusted-device bypass,
// passkey assertions), Redis-backed throttling of sensitive account actions,
// and heuristic session anomaly detection.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Credential, MFAResult, AnomalyReport, etc.). Durable
// records live in the caller's database behind the [DataStore] interface;
// ephemeral state (challenges, rate-limit windows, failure counters, IP
// blocks) lives in Redis. Cryptographic helpers live under internal/ and the
// webauthn and ticket sub-packages.
//
// # What this package must NOT do
//
//   - Hash or store passwords. The base identity provider owns those.
//   - Render UI, route requests, or validate forms.
//   - Deliver notifications. The core only decides that one is due and hands
//     the payload to the configured [Notifier].
//
// # Verification contract
//
// Hot verification paths (challenge consumption, MFA methods, recovery codes)
// report failure as a false result rather than an error, so callers can show
// uniform "incorrect code" messaging. Errors are reserved for backend
// unavailability and misuse.
package authcore
