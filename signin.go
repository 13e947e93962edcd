package goSession

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/MrEthical07/goSession/internal/flows"
)

// MinPasswordLength is the shortest password the login form submits.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,4}$`)

// Credentials are what the storefront login form submits.
type Credentials struct {
	Email        string
	Password     string
	CaptchaToken string
}

// Validate applies the form checks done before any request is sent. The
// captcha token is only checked when requireCaptcha is set.
func (c Credentials) Validate(requireCaptcha bool) error {
	if !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
		return fmt.Errorf("%w: email format is not valid", ErrInvalidCredentials)
	}
	if len(c.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidCredentials, MinPasswordLength)
	}
	if requireCaptcha && c.CaptchaToken == "" {
		return fmt.Errorf("%w: captcha token is required", ErrInvalidCredentials)
	}
	return nil
}

// Authenticator exchanges credentials for a session token. The backend
// client implements it. Implementations report refused credentials with an
// error wrapping [ErrCredentialsRejected]; any other error is treated as a
// transport failure.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (string, error)
}

// AuthenticatorFunc adapts a function to [Authenticator].
type AuthenticatorFunc func(ctx context.Context, creds Credentials) (string, error)

func (f AuthenticatorFunc) Login(ctx context.Context, creds Credentials) (string, error) {
	return f(ctx, creds)
}

// SignIn exchanges creds through auth, stores the returned token and marks
// the session authenticated.
//
// creds are validated first; invalid credentials return
// [ErrInvalidCredentials] without calling auth. Consecutive exchanges
// rejected with [ErrCredentialsRejected] are counted. Once the count reaches
// SignIn.MaxFailedAttempts, SignIn returns [ErrSignInLocked] without calling
// auth until [Gate.ResetSignInAttempts] is called. Transport and storage
// failures are returned but do not count. The state is unchanged on every
// error.
func (g *Gate) SignIn(ctx context.Context, auth Authenticator, creds Credentials) error {
	if auth == nil {
		return ErrNilAuthenticator
	}
	if g.isClosed() {
		return ErrGateClosed
	}

	if err := creds.Validate(g.cfg.SignIn.RequireCaptcha); err != nil {
		return err
	}

	g.signInMu.Lock()
	defer g.signInMu.Unlock()

	if limit := g.cfg.SignIn.MaxFailedAttempts; limit > 0 && g.failedSignIns >= limit {
		g.metrics.Inc(MetricSignInLocked)
		g.emitAudit(ctx, AuditSignIn, "", false, ErrSignInLocked, nil)
		return ErrSignInLocked
	}

	deps := g.flows.SignIn
	deps.Exchange = func(ctx context.Context) (string, error) {
		return auth.Login(ctx, creds)
	}
	res := flows.RunSignIn(ctx, deps, flows.SignInErrors{EmptyToken: ErrEmptyToken})
	if res.Err != nil {
		if errors.Is(res.Err, ErrCredentialsRejected) {
			g.failedSignIns++
		}
		g.metrics.Inc(MetricSignInFailure)
		g.logger.Warn("sign-in failed", "rejected", res.Rejected, "failed_attempts", g.failedSignIns, "error", res.Err)
		g.emitAudit(ctx, AuditSignIn, "", false, res.Err, nil)
		return res.Err
	}

	g.failedSignIns = 0
	g.metrics.Inc(MetricSignInSuccess)
	g.emitAudit(ctx, AuditSignIn, "", true, nil, nil)
	return g.Login(ctx)
}

// ResetSignInAttempts clears the consecutive failure count.
func (g *Gate) ResetSignInAttempts() {
	g.signInMu.Lock()
	g.failedSignIns = 0
	g.signInMu.Unlock()
}

// RemainingSignInAttempts reports how many rejected attempts are left before
// SignIn locks. It returns -1 when no limit is configured.
func (g *Gate) RemainingSignInAttempts() int {
	limit := g.cfg.SignIn.MaxFailedAttempts
	if limit <= 0 {
		return -1
	}

	g.signInMu.Lock()
	defer g.signInMu.Unlock()
	if g.failedSignIns >= limit {
		return 0
	}
	return limit - g.failedSignIns
}
