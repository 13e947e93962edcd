package goSession

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testNow = time.Unix(1_700_000_000, 0)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-verified-client-side"))
	require.NoError(t, err)
	return raw
}

func liveToken(t *testing.T) string {
	return mintToken(t, jwt.MapClaims{"exp": testNow.Add(time.Hour).Unix(), "clienteId": 42})
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func newTestGate(t *testing.T, s store.Backend, mutate ...func(*Config)) *Gate {
	t.Helper()
	cfg := testConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}
	g, err := New().
		WithConfig(cfg).
		WithStore(s).
		WithClock(func() time.Time { return testNow }).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

var errInjected = errors.New("injected failure")

// recordingBackend wraps a memory backend, records every call and fails
// the ones configured to fail.
type recordingBackend struct {
	*store.MemoryBackend

	mu         sync.Mutex
	gets       []string
	removes    []string
	clears     int
	failGet    error
	failRemove map[string]error
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{
		MemoryBackend: store.NewMemoryBackend(),
		failRemove:    map[string]error{},
	}
}

func (r *recordingBackend) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	r.gets = append(r.gets, key)
	err := r.failGet
	r.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return r.MemoryBackend.Get(ctx, key)
}

func (r *recordingBackend) Remove(ctx context.Context, key string) error {
	r.mu.Lock()
	r.removes = append(r.removes, key)
	err := r.failRemove[key]
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.MemoryBackend.Remove(ctx, key)
}

func (r *recordingBackend) Clear(ctx context.Context) error {
	r.mu.Lock()
	r.clears++
	r.mu.Unlock()
	return r.MemoryBackend.Clear(ctx)
}

func (r *recordingBackend) removed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.removes...)
}

func (r *recordingBackend) getCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.gets)
}

// downBackend fails every operation, like an unreachable native service.
type downBackend struct{}

func (downBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, store.ErrBackendUnavailable
}
func (downBackend) Set(context.Context, string, string) error { return store.ErrBackendUnavailable }
func (downBackend) Remove(context.Context, string) error      { return store.ErrBackendUnavailable }
func (downBackend) Clear(context.Context) error               { return store.ErrBackendUnavailable }
func (downBackend) Keys(context.Context) ([]string, error) {
	return nil, store.ErrBackendUnavailable
}

func recvState(t *testing.T, sub *Subscription) State {
	t.Helper()
	select {
	case st, ok := <-sub.C:
		require.True(t, ok, "subscription closed")
		return st
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state")
		return State{}
	}
}
