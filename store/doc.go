// Package store provides the persisted key-value store behind the session
// gate: string keys, string values, surviving process restarts.
//
// # Backends
//
// A [Store] composes two [Backend] implementations. The native preference
// backend ([RedisBackend]) is used when the injected platform probe reports the
// native runtime at construction; the browser-persistent backend
// ([FileBackend] or [MemoryBackend]) is used otherwise and is always the
// fallback. Every native failure is logged and the same operation is retried
// once against the fallback. Only a failure of the fallback reaches the caller.
//
// # Architecture boundaries
//
// This package knows nothing about tokens or session state. Callers decide
// which keys matter; the store only moves strings.
//
// # What this package must NOT do
//
//   - Import goSession or token.
//   - Log stored values (keys only).
//   - Re-probe the platform on every call; the strategy is fixed by [New].
package store
