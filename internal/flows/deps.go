package flows

import "context"

// KeyReader reads one persisted key.
type KeyReader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// KeyWriter writes one persisted key.
type KeyWriter interface {
	Set(ctx context.Context, key, value string) error
}

// KeyRemover deletes persisted keys.
type KeyRemover interface {
	Remove(ctx context.Context, key string) error
}

// Deps groups flow dependency sets. The Gate builds this once and delegates
// each transition to the matching flow.
type Deps struct {
	Boot   BootDeps
	Logout LogoutDeps
	SignIn SignInDeps
}
