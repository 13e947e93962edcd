package store

import (
	"context"
	"errors"
)

var (
	// ErrBackendUnavailable wraps transport-level failures of a backend.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
	// ErrNoFallback is returned by [New] when no browser-persistent backend is supplied.
	ErrNoFallback = errors.New("store requires a fallback backend")
	// ErrCorrupt is returned when persisted data cannot be decoded.
	ErrCorrupt = errors.New("storage data corrupt")
)

// Backend is a string-keyed, string-valued persistent mapping.
//
// Get reports a missing key with ok == false and a nil error. Remove of an
// absent key is not an error. Keys returns entries in no particular order.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
}
