package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/token"
)

// TokenGate is the part of goSession.Gate used by [RequireLiveToken].
type TokenGate interface {
	StateReader
	Claims(ctx context.Context) (*token.Claims, error)
	Logout(ctx context.Context) goSession.LogoutResult
}

// RequireLiveToken behaves like [RequireAuthenticated] and also checks the
// stored token against now on every request. A missing, undecodable or
// expired token ends the session through gate.Logout before the visitor is
// treated as signed out. A storage read failure answers 503 like an
// unresolved gate and leaves the session intact. now may be nil.
func RequireLiveToken(gate TokenGate, opts Options, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			st := gate.State()
			switch st.Phase() {
			case goSession.PhaseUnresolved:
				waiting(w, opts)
				return
			case goSession.PhaseUnauthenticated:
				signedOut(w, r, opts)
				return
			}

			claims, err := gate.Claims(r.Context())
			if err == nil {
				err = claims.Valid(now())
			}
			switch {
			case err == nil:
			case tokenUnusable(err):
				gate.Logout(r.Context())
				signedOut(w, r, opts)
				return
			default:
				// Storage could not be read; keep the session and let the
				// client retry.
				waiting(w, opts)
				return
			}

			next.ServeHTTP(w, r.WithContext(goSession.WithState(r.Context(), st)))
		})
	}
}

func tokenUnusable(err error) bool {
	return errors.Is(err, goSession.ErrNoToken) ||
		errors.Is(err, token.ErrMalformed) ||
		errors.Is(err, token.ErrExpired) ||
		errors.Is(err, token.ErrMissingExpiry)
}
