package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrEthical07/goSession/platform"
)

// Store is the persisted key-value store used by the session gate.
//
// Store itself satisfies [Backend], so it can be handed to anything that
// accepts one.
type Store struct {
	primary    Backend
	fallback   Backend
	logger     *slog.Logger
	onFallback func(op string, err error)
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger used for fallback and operation traces.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFallbackHook registers fn to be called each time a native operation
// fails and is retried against the fallback backend.
func WithFallbackHook(fn func(op string, err error)) Option {
	return func(s *Store) {
		s.onFallback = fn
	}
}

// New builds a Store. The native backend becomes primary only when probe
// reports the native runtime and native is non-nil; fallback is mandatory.
func New(native, fallback Backend, probe platform.Probe, opts ...Option) (*Store, error) {
	if fallback == nil {
		return nil, ErrNoFallback
	}

	s := &Store{
		fallback: fallback,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if native != nil && probe != nil && probe.IsNative() {
		s.primary = native
	}

	return s, nil
}

// Native reports whether operations go to the native preference backend first.
func (s *Store) Native() bool {
	return s != nil && s.primary != nil
}

// Set writes value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.primary != nil {
		err := s.primary.Set(ctx, key, value)
		if err == nil {
			s.logger.DebugContext(ctx, "stored key", "key", key, "backend", "native")
			return nil
		}
		s.degrade(ctx, "set", key, err)
	}

	if err := s.fallback.Set(ctx, key, value); err != nil {
		return fmt.Errorf("store set %q: %w", key, err)
	}
	s.logger.DebugContext(ctx, "stored key", "key", key, "backend", "fallback")
	return nil
}

// Get returns the value stored under key; ok is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if s.primary != nil {
		value, ok, err := s.primary.Get(ctx, key)
		if err == nil {
			s.logger.DebugContext(ctx, "retrieved key", "key", key, "backend", "native", "present", ok)
			return value, ok, nil
		}
		s.degrade(ctx, "get", key, err)
	}

	value, ok, err := s.fallback.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("store get %q: %w", key, err)
	}
	s.logger.DebugContext(ctx, "retrieved key", "key", key, "backend", "fallback", "present", ok)
	return value, ok, nil
}

// Remove deletes key. Removing an absent key succeeds.
func (s *Store) Remove(ctx context.Context, key string) error {
	if s.primary != nil {
		err := s.primary.Remove(ctx, key)
		if err == nil {
			s.logger.DebugContext(ctx, "removed key", "key", key, "backend", "native")
			return nil
		}
		s.degrade(ctx, "remove", key, err)
	}

	if err := s.fallback.Remove(ctx, key); err != nil {
		return fmt.Errorf("store remove %q: %w", key, err)
	}
	s.logger.DebugContext(ctx, "removed key", "key", key, "backend", "fallback")
	return nil
}

// Clear deletes every entry of this application namespace.
func (s *Store) Clear(ctx context.Context) error {
	if s.primary != nil {
		err := s.primary.Clear(ctx)
		if err == nil {
			s.logger.DebugContext(ctx, "cleared store", "backend", "native")
			return nil
		}
		s.degrade(ctx, "clear", "", err)
	}

	if err := s.fallback.Clear(ctx); err != nil {
		return fmt.Errorf("store clear: %w", err)
	}
	s.logger.DebugContext(ctx, "cleared store", "backend", "fallback")
	return nil
}

// Keys lists stored keys. Order depends on the backend that answered.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if s.primary != nil {
		keys, err := s.primary.Keys(ctx)
		if err == nil {
			return keys, nil
		}
		s.degrade(ctx, "keys", "", err)
	}

	keys, err := s.fallback.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("store keys: %w", err)
	}
	return keys, nil
}

func (s *Store) degrade(ctx context.Context, op, key string, err error) {
	s.logger.WarnContext(ctx, "native storage failed, using fallback", "op", op, "key", key, "error", err)
	if s.onFallback != nil {
		s.onFallback(op, err)
	}
}
