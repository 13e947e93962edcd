package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/MrEthical07/goSession/platform"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBridge = errors.New("bridge not ready")

// brokenBackend fails every operation listed in failing and records calls.
type brokenBackend struct {
	mu      sync.Mutex
	inner   *MemoryBackend
	failing map[string]bool
	calls   map[string]int
}

func newBrokenBackend(ops ...string) *brokenBackend {
	b := &brokenBackend{
		inner:   NewMemoryBackend(),
		failing: make(map[string]bool),
		calls:   make(map[string]int),
	}
	for _, op := range ops {
		b.failing[op] = true
	}
	return b
}

func (b *brokenBackend) hit(op string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[op]++
	if b.failing[op] {
		return errBridge
	}
	return nil
}

func (b *brokenBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if err := b.hit("get"); err != nil {
		return "", false, err
	}
	return b.inner.Get(ctx, key)
}

func (b *brokenBackend) Set(ctx context.Context, key, value string) error {
	if err := b.hit("set"); err != nil {
		return err
	}
	return b.inner.Set(ctx, key, value)
}

func (b *brokenBackend) Remove(ctx context.Context, key string) error {
	if err := b.hit("remove"); err != nil {
		return err
	}
	return b.inner.Remove(ctx, key)
}

func (b *brokenBackend) Clear(ctx context.Context) error {
	if err := b.hit("clear"); err != nil {
		return err
	}
	return b.inner.Clear(ctx)
}

func (b *brokenBackend) Keys(ctx context.Context) ([]string, error) {
	if err := b.hit("keys"); err != nil {
		return nil, err
	}
	return b.inner.Keys(ctx)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestNewRequiresFallback(t *testing.T) {
	_, err := New(NewMemoryBackend(), nil, platform.Static(true))
	assert.ErrorIs(t, err, ErrNoFallback)
}

func TestStrategyFixedAtConstruction(t *testing.T) {
	native := NewMemoryBackend()
	fallback := NewMemoryBackend()
	ctx := context.Background()

	web, err := New(native, fallback, platform.Static(false))
	require.NoError(t, err)
	assert.False(t, web.Native())
	require.NoError(t, web.Set(ctx, "k", "web"))
	_, ok, _ := native.Get(ctx, "k")
	assert.False(t, ok, "non-native store must not touch the native backend")

	app, err := New(native, fallback, platform.Static(true))
	require.NoError(t, err)
	assert.True(t, app.Native())
	require.NoError(t, app.Set(ctx, "k", "app"))
	v, ok, _ := native.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "app", v)

	noNative, err := New(nil, fallback, platform.Static(true))
	require.NoError(t, err)
	assert.False(t, noNative.Native())
}

func TestRoundTripNativeHealthy(t *testing.T) {
	_, rdb := newTestRedis(t)
	s, err := New(NewRedisBackend(rdb, "test", "app"), NewMemoryBackend(), platform.Static(true))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "token", "a.b.c"))

	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a.b.c", v)
}

func TestRoundTripNativeFailsFallsBack(t *testing.T) {
	native := newBrokenBackend("get", "set", "remove", "clear", "keys")
	fallback := NewMemoryBackend()

	var fallbacks []string
	s, err := New(native, fallback, platform.Static(true), WithFallbackHook(func(op string, err error) {
		assert.ErrorIs(t, err, errBridge)
		fallbacks = append(fallbacks, op)
	}))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "token", "a.b.c"))

	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a.b.c", v)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"token"}, keys)

	require.NoError(t, s.Remove(ctx, "token"))
	_, ok, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "x", "1"))
	require.NoError(t, s.Clear(ctx))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	assert.Equal(t, []string{"set", "get", "keys", "remove", "get", "set", "clear", "keys"}, fallbacks)
	assert.Equal(t, 2, native.calls["get"])
}

func TestFallbackFailurePropagates(t *testing.T) {
	s, err := New(newBrokenBackend("set", "get"), newBrokenBackend("set", "get"), platform.Static(true))
	require.NoError(t, err)

	ctx := context.Background()
	err = s.Set(ctx, "k", "v")
	assert.ErrorIs(t, err, errBridge)

	_, _, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, errBridge)
}

func TestRemoveAbsentKeyIsNotAnError(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	for name, b := range map[string]Backend{
		"memory": NewMemoryBackend(),
		"redis":  NewRedisBackend(rdb, "", ""),
	} {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, b.Remove(ctx, "missing"))
		})
	}
}

func TestRedisBackendNamespaceIsolation(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	a := NewRedisBackend(rdb, "gs", "storefront")
	b := NewRedisBackend(rdb, "gs", "other")
	assert.Equal(t, "gs:storefront", a.HashKey())

	require.NoError(t, a.Set(ctx, "token", "t1"))
	require.NoError(t, a.Set(ctx, "userData", "{}"))
	require.NoError(t, b.Set(ctx, "token", "t2"))

	keys, err := a.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"token", "userData"}, keys)

	require.NoError(t, a.Clear(ctx))
	assert.False(t, mr.Exists("gs:storefront"))

	v, ok, err := b.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t2", v)
}

func TestRedisBackendUnavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	backend := NewRedisBackend(rdb, "gs", "app")
	mr.Close()

	_, _, err := backend.Get(context.Background(), "token")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestRedisOutageFallsBackToFile(t *testing.T) {
	mr, rdb := newTestRedis(t)
	file, err := NewFileBackend(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)

	s, err := New(NewRedisBackend(rdb, "gs", "app"), file, platform.Static(true))
	require.NoError(t, err)
	mr.Close()

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "token", "a.b.c"))
	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a.b.c", v)
}
