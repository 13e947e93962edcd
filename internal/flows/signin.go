package flows

import (
	"context"
	"fmt"
)

// SignInDeps captures sign-in flow dependencies.
type SignInDeps struct {
	Exchange func(ctx context.Context) (string, error)
	Store    KeyWriter
	TokenKey string
}

// SignInErrors carries host-level sentinel errors used by the sign-in flow.
type SignInErrors struct {
	EmptyToken error
}

type SignInResult struct {
	// Rejected is true when the backend refused the credentials or returned
	// no token; storage failures leave it false.
	Rejected bool
	Err      error
}

// RunSignIn exchanges credentials for a token and persists it under TokenKey.
// It does not touch session state; the caller marks the session
// authenticated once the token is stored.
func RunSignIn(ctx context.Context, deps SignInDeps, errs SignInErrors) SignInResult {
	raw, err := deps.Exchange(ctx)
	if err != nil {
		return SignInResult{Rejected: true, Err: err}
	}
	if raw == "" {
		return SignInResult{Rejected: true, Err: errs.EmptyToken}
	}

	if err := deps.Store.Set(ctx, deps.TokenKey, raw); err != nil {
		return SignInResult{Err: fmt.Errorf("persist token: %w", err)}
	}
	return SignInResult{}
}
