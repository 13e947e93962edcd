package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Unix(1_700_000_000, 0)

type fixedState goSession.State

func (f fixedState) State() goSession.State { return goSession.State(f) }

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, ok := goSession.StateFromContext(r.Context())
		assert.True(t, ok)
		assert.True(t, st.Authenticated)
		w.WriteHeader(http.StatusTeapot)
	})
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRequireAuthenticated(t *testing.T) {
	tests := []struct {
		name       string
		state      goSession.State
		opts       Options
		wantCode   int
		wantHeader map[string]string
	}{
		{
			name:       "unresolved waits",
			state:      goSession.State{Loading: true, Authenticated: true},
			wantCode:   http.StatusServiceUnavailable,
			wantHeader: map[string]string{"Retry-After": "1"},
		},
		{
			name:       "unresolved custom retry",
			state:      goSession.State{Loading: true},
			opts:       Options{RetryAfter: 5 * time.Second},
			wantCode:   http.StatusServiceUnavailable,
			wantHeader: map[string]string{"Retry-After": "5"},
		},
		{
			name:       "signed out redirects to login",
			state:      goSession.State{},
			wantCode:   http.StatusFound,
			wantHeader: map[string]string{"Location": DefaultLoginPath},
		},
		{
			name:       "signed out custom login path",
			state:      goSession.State{},
			opts:       Options{LoginPath: "/login"},
			wantCode:   http.StatusFound,
			wantHeader: map[string]string{"Location": "/login"},
		},
		{
			name:     "signed out rejected",
			state:    goSession.State{},
			opts:     Options{RejectUnauthenticated: true},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "authenticated passes",
			state:    goSession.State{Authenticated: true},
			wantCode: http.StatusTeapot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireAuthenticated(fixedState(tt.state), tt.opts)(okHandler(t))
			rec := serve(h, "/Perfil")

			assert.Equal(t, tt.wantCode, rec.Code)
			for k, v := range tt.wantHeader {
				assert.Equal(t, v, rec.Header().Get(k))
			}
		})
	}
}

func TestRequireAuthenticatedNilGate(t *testing.T) {
	rec := serve(RequireAuthenticated(nil, Options{})(okHandler(t)), "/Perfil")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthenticatedFollowsGate(t *testing.T) {
	ctx := context.Background()
	g, err := goSession.New().WithStore(store.NewMemoryBackend()).Build()
	require.NoError(t, err)
	defer g.Close()

	h := RequireAuthenticated(g, Options{})(okHandler(t))
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/Carrito").Code)

	_, err = g.Boot(ctx)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, serve(h, "/Carrito").Code)

	require.NoError(t, g.Login(ctx))
	assert.Equal(t, http.StatusTeapot, serve(h, "/Carrito").Code)

	g.Logout(ctx)
	assert.Equal(t, http.StatusFound, serve(h, "/Carrito").Code)
}

func mint(t *testing.T, exp time.Time) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)
	return raw
}

func TestRequireLiveTokenEndsExpiredSession(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryBackend()
	require.NoError(t, mem.Set(ctx, "token", mint(t, now.Add(time.Minute))))
	require.NoError(t, mem.Set(ctx, "clienteId", "42"))

	clock := now
	g, err := goSession.New().
		WithStore(mem).
		WithClock(func() time.Time { return clock }).
		Build()
	require.NoError(t, err)
	defer g.Close()

	_, err = g.Boot(ctx)
	require.NoError(t, err)

	h := RequireLiveToken(g, Options{}, func() time.Time { return clock })(okHandler(t))
	assert.Equal(t, http.StatusTeapot, serve(h, "/Perfil").Code)

	clock = now.Add(2 * time.Minute)
	rec := serve(h, "/Perfil")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.False(t, g.State().Authenticated)

	keys, err := mem.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRequireLiveTokenMissingToken(t *testing.T) {
	ctx := context.Background()
	g, err := goSession.New().WithStore(store.NewMemoryBackend()).Build()
	require.NoError(t, err)
	defer g.Close()
	_, err = g.Boot(ctx)
	require.NoError(t, err)
	require.NoError(t, g.Login(ctx))

	h := RequireLiveToken(g, Options{RejectUnauthenticated: true}, nil)(okHandler(t))
	assert.Equal(t, http.StatusUnauthorized, serve(h, "/Perfil").Code)
	assert.False(t, g.State().Authenticated)
}

type flakyBackend struct {
	*store.MemoryBackend
	failGet bool
}

func (f *flakyBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("storage offline")
	}
	return f.MemoryBackend.Get(ctx, key)
}

func TestRequireLiveTokenReadFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	fb := &flakyBackend{MemoryBackend: store.NewMemoryBackend()}
	require.NoError(t, fb.Set(ctx, "token", mint(t, now.Add(time.Hour))))
	require.NoError(t, fb.Set(ctx, "userData", "{}"))

	g, err := goSession.New().
		WithStore(fb).
		WithClock(func() time.Time { return now }).
		Build()
	require.NoError(t, err)
	defer g.Close()
	_, err = g.Boot(ctx)
	require.NoError(t, err)

	h := RequireLiveToken(g, Options{}, func() time.Time { return now })(okHandler(t))

	fb.failGet = true
	rec := serve(h, "/Perfil")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.True(t, g.State().Authenticated)

	fb.failGet = false
	keys, err := fb.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"token", "userData"}, keys)
	assert.Equal(t, http.StatusTeapot, serve(h, "/Perfil").Code)
}

func TestProtect(t *testing.T) {
	mux := http.NewServeMux()
	routes := make(map[string]http.Handler, len(ProtectedPaths))
	for _, p := range ProtectedPaths {
		routes[p] = okHandler(t)
	}
	Protect(mux, fixedState(goSession.State{Authenticated: true}), Options{}, routes)

	for _, p := range ProtectedPaths {
		assert.Equal(t, http.StatusTeapot, serve(mux, p).Code, p)
	}

	closed := http.NewServeMux()
	Protect(closed, fixedState(goSession.State{}), Options{}, routes)
	assert.Equal(t, http.StatusFound, serve(closed, "/Carrito").Code)
}
