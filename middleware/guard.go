package middleware

import (
	"net/http"
	"strconv"
	"time"

	goSession "github.com/MrEthical07/goSession"
)

// DefaultLoginPath is where signed-out visitors are sent.
const DefaultLoginPath = "/IniciaSesion"

// StateReader is the part of goSession.Gate the guards read.
type StateReader interface {
	State() goSession.State
}

type Options struct {
	// LoginPath is the redirect target for signed-out visitors. Empty means
	// DefaultLoginPath.
	LoginPath string
	// RejectUnauthenticated answers 401 instead of redirecting.
	RejectUnauthenticated bool
	// RetryAfter is advertised while the gate is unresolved. Zero means one second.
	RetryAfter time.Duration
}

func (o Options) loginPath() string {
	if o.LoginPath == "" {
		return DefaultLoginPath
	}
	return o.LoginPath
}

func (o Options) retryAfterSeconds() string {
	secs := int(o.RetryAfter / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// RequireAuthenticated lets a request through only when gate reports an
// authenticated session. The accepted snapshot is attached to the request
// context; read it with goSession.StateFromContext.
func RequireAuthenticated(gate StateReader, opts Options) func(http.Handler) http.Handler {
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

			next.ServeHTTP(w, r.WithContext(goSession.WithState(r.Context(), st)))
		})
	}
}

func waiting(w http.ResponseWriter, opts Options) {
	w.Header().Set("Retry-After", opts.retryAfterSeconds())
	http.Error(w, "session not resolved", http.StatusServiceUnavailable)
}

func signedOut(w http.ResponseWriter, r *http.Request, opts Options) {
	if opts.RejectUnauthenticated {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, opts.loginPath(), http.StatusFound)
}
