// Package token inspects session tokens issued by the storefront backend.
//
// Tokens are three dot-separated segments whose middle segment is a base64url
// JSON claims object. The client treats them as untrusted data: [Decode] never
// verifies a signature, it only recovers the claims the session gate needs
// (expiry and the customer subject) for local UX gating.
//
// # Architecture boundaries
//
// This package is pure: no storage, no clock, no logging. Callers pass the
// current time to [Claims.Valid].
//
// # What this package must NOT do
//
//   - Verify signatures or imply that a decoded token is trustworthy.
//   - Import goSession, store, or any package with side effects.
package token
