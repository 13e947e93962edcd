package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goSession/token"
)

// BootOutcome classifies how the boot check settled.
type BootOutcome uint8

const (
	BootNoToken BootOutcome = iota
	BootValid
	BootMalformed
	BootMissingExpiry
	BootExpired
	BootReadFailed
)

func (o BootOutcome) String() string {
	switch o {
	case BootNoToken:
		return "no_token"
	case BootValid:
		return "valid"
	case BootMalformed:
		return "malformed"
	case BootMissingExpiry:
		return "missing_expiry"
	case BootExpired:
		return "expired"
	case BootReadFailed:
		return "read_failed"
	default:
		return "unknown"
	}
}

type BootStore interface {
	KeyReader
	KeyRemover
}

// BootDeps captures boot check dependencies.
type BootDeps struct {
	Store    BootStore
	TokenKey string
	Decode   func(string) (*token.Claims, error)
	Now      func() time.Time
}

// BootResult is the settled answer of a boot check.
type BootResult struct {
	Authenticated bool
	Outcome       BootOutcome
	Claims        *token.Claims
	// Purged is true when the stored token was removed because it was unusable.
	Purged   bool
	PurgeErr error
	// Err carries a storage read failure; the check still settles unauthenticated.
	Err error
}

// RunBootCheck reads the stored token and decides whether the session is
// authenticated. Unusable tokens are purged so a later boot never re-reads
// them; an absent token triggers no removal.
func RunBootCheck(ctx context.Context, deps BootDeps) BootResult {
	raw, ok, err := deps.Store.Get(ctx, deps.TokenKey)
	if err != nil {
		return BootResult{Outcome: BootReadFailed, Err: err}
	}
	if !ok || raw == "" {
		return BootResult{Outcome: BootNoToken}
	}

	decode := deps.Decode
	if decode == nil {
		decode = token.Decode
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	claims, err := decode(raw)
	if err != nil {
		return purge(ctx, deps, BootResult{Outcome: BootMalformed})
	}

	switch err := claims.Valid(now()); {
	case err == nil:
		return BootResult{Authenticated: true, Outcome: BootValid, Claims: claims}
	case errors.Is(err, token.ErrMissingExpiry):
		return purge(ctx, deps, BootResult{Outcome: BootMissingExpiry, Claims: claims})
	default:
		return purge(ctx, deps, BootResult{Outcome: BootExpired, Claims: claims})
	}
}

func purge(ctx context.Context, deps BootDeps, res BootResult) BootResult {
	res.PurgeErr = deps.Store.Remove(ctx, deps.TokenKey)
	res.Purged = res.PurgeErr == nil
	return res
}
