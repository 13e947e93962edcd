package goSession

import "errors"

var (
	// ErrNilStore is returned by [Builder.Build] when no store was configured.
	ErrNilStore = errors.New("session store is required")
	// ErrBuilderUsed is returned when [Builder.Build] is called twice.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrGateClosed is returned by operations attempted after [Gate.Close].
	ErrGateClosed = errors.New("session gate closed")
	// ErrNoToken is returned when no session token is stored.
	ErrNoToken = errors.New("no session token stored")
	// ErrSignInLocked is returned once the consecutive failed sign-in limit is reached.
	ErrSignInLocked = errors.New("sign-in locked after repeated failures")
	// ErrEmptyToken is returned when the backend accepted credentials but sent no token.
	ErrEmptyToken = errors.New("backend returned an empty token")
	// ErrNilAuthenticator is returned by [Gate.SignIn] without an authenticator.
	ErrNilAuthenticator = errors.New("authenticator is required")
	// ErrCredentialsRejected is wrapped by authenticators when the backend
	// refuses the submitted credentials.
	ErrCredentialsRejected = errors.New("credentials rejected")
	// ErrInvalidCredentials is returned when credentials fail the form checks.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidConfig wraps every [Config.Validate] failure.
	ErrInvalidConfig = errors.New("invalid session config")
)
