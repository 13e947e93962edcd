// Package goSession provides the client-side session gate of the storefront
// application: a single source of truth for "is the current user
// authenticated", computed from a persisted session token and published to
// every view that depends on it.
//
// A [Gate] starts unresolved (Loading). [Gate.Boot] reads the token from the
// persisted store, decodes its claims without verifying the signature and
// settles the gate authenticated only while the exp claim lies in the future.
// Unusable tokens are purged. [Gate.Login] and [Gate.Logout] move the gate
// between the authenticated and unauthenticated states afterwards, and
// [Gate.Subscribe] streams every change.
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Gate], [Builder], [Config] and
// value types ([State], [LogoutResult], [MetricsSnapshot]). Transition logic
// lives in internal/flows, token inspection in token, persistence in store.
//
// # What this package must NOT do
//
//   - Treat a decoded token as verified; the backend validates every request.
//   - Issue, refresh or encrypt tokens.
//   - Let callers mutate session state other than through Login, Logout and SignIn.
package goSession
