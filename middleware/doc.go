// Package middleware exposes HTTP guards for routes that require a signed-in
// customer, built on top of goSession.Gate state.
//
// # Guards
//
//   - [RequireAuthenticated]: decides from the published gate state only.
//   - [RequireLiveToken]: additionally re-reads the stored token on every
//     request and ends the session once it has expired.
//   - [Protect]: mounts handlers on a mux behind [RequireAuthenticated].
//
// While the gate is unresolved every guard answers 503 with Retry-After, so
// no route is ever granted or refused before the boot check settles. Signed
// out visitors are redirected to the login page, or get 401 when
// [Options.RejectUnauthenticated] is set.
//
// # What this package must NOT do
//
//   - Trust a token the gate has not accepted.
//   - Write to the session store other than through Gate.Logout.
package middleware
