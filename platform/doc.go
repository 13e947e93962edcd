// Package platform answers one question for the storage layer: is this
// process running inside the native-bridge runtime, where the native
// preference backend is available?
//
// Every [Probe] must be safe to call at any time and must never panic; a
// probe that cannot decide reports false so callers fall back to the
// browser-persistent backend.
package platform
