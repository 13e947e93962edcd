// Package flows contains pure-function orchestrators for every Gate
// transition: the boot check, logout cleanup and sign-in.
//
// Each flow function (RunBootCheck, RunLogout, RunSignIn) accepts a typed
// dependency struct and returns a result value without side-effects beyond
// those dependencies. The Gate owns state publication, metrics and audit; the
// flows only decide what happened.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goSession (to avoid import cycles).
//   - Perform I/O directly; all storage goes through the dependency interfaces.
package flows
