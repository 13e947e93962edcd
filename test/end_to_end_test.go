//go:build integration
// +build integration

package test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/backend"
	"github.com/MrEthical07/goSession/middleware"
	"github.com/MrEthical07/goSession/store"
	"github.com/alicebob/miniredis/v2"
)

func TestEndToEndSignInSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	api := newStubStorefront(t, mintToken(t, time.Hour))

	cfg := goSession.DefaultConfig()
	cfg.Audit.Enabled = false
	cfg.Store.RedisAddr = mr.Addr()
	cfg.Backend.BaseURL = api.URL

	open := func() *goSession.Gate {
		be, err := goSession.OpenBackends(cfg.Store)
		if err != nil {
			t.Fatalf("OpenBackends: %v", err)
		}
		g, err := goSession.New().WithConfig(cfg).WithBackends(be).Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		t.Cleanup(func() { _ = g.Close() })
		return g
	}

	g := open()
	if st, err := g.Boot(ctx); err != nil || st.Authenticated {
		t.Fatalf("fresh boot: %+v %v", st, err)
	}
	client := backend.NewClientFromConfig(cfg.Backend)
	if err := g.SignIn(ctx, client, integrationCreds); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !g.State().Authenticated {
		t.Fatal("expected authenticated after sign-in")
	}
	if s, ok := g.Store().(*store.Store); !ok || !s.Native() {
		t.Fatal("expected the redis backend to be selected")
	}
	_ = g.Close()

	restarted := open()
	st, err := restarted.Boot(ctx)
	if err != nil || !st.Authenticated {
		t.Fatalf("restart boot: %+v %v", st, err)
	}

	claims, err := restarted.Claims(ctx)
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	raw, _, _ := restarted.Token(ctx)
	profile, err := client.Profile(ctx, raw, claims.CustomerID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	var body map[string]string
	if err := json.Unmarshal(profile, &body); err != nil || body["id"] != "42" {
		t.Fatalf("unexpected profile %s (%v)", profile, err)
	}
}

func TestEndToEndLockAfterRejections(t *testing.T) {
	ctx := context.Background()
	api := newStubStorefront(t, mintToken(t, time.Hour))
	g := newIntegrationGate(t, store.NewMemoryBackend())
	if _, err := g.Boot(ctx); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	client := backend.NewClient(api.URL, 5*time.Second)
	wrong := integrationCreds
	wrong.Password = "wrong-password"
	for i := 0; i < 3; i++ {
		if err := g.SignIn(ctx, client, wrong); !errors.Is(err, goSession.ErrCredentialsRejected) {
			t.Fatalf("attempt %d: expected rejection, got %v", i+1, err)
		}
	}
	if err := g.SignIn(ctx, client, integrationCreds); !errors.Is(err, goSession.ErrSignInLocked) {
		t.Fatalf("expected lock, got %v", err)
	}
	if got := api.logins.Load(); got != 3 {
		t.Fatalf("locked attempt must not reach the backend; saw %d calls", got)
	}
}

func TestEndToEndFileFallbackAndGuard(t *testing.T) {
	ctx := context.Background()

	cfg := goSession.DefaultConfig()
	cfg.Audit.Enabled = false
	cfg.Store.FilePath = filepath.Join(t.TempDir(), "prefs.json")
	be, err := goSession.OpenBackends(cfg.Store)
	if err != nil {
		t.Fatalf("OpenBackends: %v", err)
	}
	g, err := goSession.New().WithConfig(cfg).WithBackends(be).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })

	if err := g.Store().Set(ctx, "token", mintToken(t, -time.Minute)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if st, err := g.Boot(ctx); err != nil || st.Authenticated {
		t.Fatalf("expired token must boot signed out: %+v %v", st, err)
	}
	if _, ok, _ := g.Store().Get(ctx, "token"); ok {
		t.Fatal("expired token must be purged from the file")
	}

	mux := http.NewServeMux()
	middleware.Protect(mux, g, middleware.Options{}, map[string]http.Handler{
		"GET /Perfil": http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/Perfil", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != middleware.DefaultLoginPath {
		t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	if err := g.Store().Set(ctx, "token", mintToken(t, time.Hour)); err != nil {
		t.Fatalf("store token: %v", err)
	}
	if err := g.Login(ctx); err != nil {
		t.Fatalf("Login: %v", err)
	}
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/Perfil", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 once signed in, got %d", rec.Code)
	}
}
