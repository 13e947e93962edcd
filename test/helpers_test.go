//go:build integration
// +build integration

package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/store"
	"github.com/golang-jwt/jwt/v5"
)

const (
	integrationEmail    = "ana@example.com"
	integrationPassword = "correct-horse"
)

var integrationCreds = goSession.Credentials{
	Email:        integrationEmail,
	Password:     integrationPassword,
	CaptchaToken: "captcha",
}

func mintToken(t *testing.T, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       integrationEmail,
		"clienteId": 42,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}).SignedString([]byte("integration"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

// stubStorefront answers /auth/login like the storefront API and counts the
// calls it receives.
type stubStorefront struct {
	*httptest.Server
	token  string
	logins atomic.Int64
}

func newStubStorefront(t *testing.T, token string) *stubStorefront {
	t.Helper()

	s := &stubStorefront{token: token}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		s.logins.Add(1)
		var body struct {
			Email    string `json:"vchCorreo"`
			Password string `json:"vchPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if body.Email != integrationEmail || body.Password != integrationPassword {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Credenciales incorrectas"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": s.token})
	})
	mux.HandleFunc("GET /clientes/ids/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": r.PathValue("id"), "vchNombre": "Ana"})
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func newIntegrationGate(t *testing.T, backing store.Backend) *goSession.Gate {
	t.Helper()

	cfg := goSession.DefaultConfig()
	cfg.Audit.Enabled = false
	g, err := goSession.New().WithConfig(cfg).WithStore(backing).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}
