// Package transport turns request descriptors into HTTP calls against the
// RelayCast service and classifies every failure into a closed error
// taxonomy.
//
// The package owns three pieces:
//   - Request: an immutable description of one logical call
//   - Error: a classified failure with a stable Kind
//   - Executor: the shared session that performs the call and decodes JSON
//
// The executor never retries and never recovers silently. Every failure is
// classified exactly once and handed back to the caller; retry and backoff
// policy live in the retry package, on top of this one.
package transport
