// Package rate provides the internal Redis-backed primitive for throttling
// sensitive account actions.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. The
// counter increments atomically on every call, so two rapid requests for
// the same key can never both sneak under the limit through a
// read-then-write race. Key prefix is supplied by the caller.
//
// # What this package must NOT do
//
//   - Normalize or interpret keys (callers decide what identifies a client).
//   - Be imported outside the authcore module.
package rate
