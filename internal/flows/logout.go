package flows

import "context"

type LogoutStore interface {
	KeyRemover
	Clear(ctx context.Context) error
}

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	Store LogoutStore
	// Keys lists every session-scoped key, token first.
	Keys []string
	// ClearOnFailure wipes the whole store when any removal failed.
	ClearOnFailure bool
}

// KeyOutcome records one removal attempt.
type KeyOutcome struct {
	Key string
	Err error
}

type LogoutResult struct {
	Outcomes []KeyOutcome
	Cleared  bool
	ClearErr error
}

// Failed returns the outcomes whose removal returned an error.
func (r LogoutResult) Failed() []KeyOutcome {
	var failed []KeyOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// RunLogout attempts to remove every key exactly once. A failed removal never
// stops the remaining ones; the result lists each outcome.
func RunLogout(ctx context.Context, deps LogoutDeps) LogoutResult {
	seen := make(map[string]struct{}, len(deps.Keys))
	res := LogoutResult{Outcomes: make([]KeyOutcome, 0, len(deps.Keys))}

	for _, key := range deps.Keys {
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		res.Outcomes = append(res.Outcomes, KeyOutcome{
			Key: key,
			Err: deps.Store.Remove(ctx, key),
		})
	}

	if deps.ClearOnFailure && len(res.Failed()) > 0 {
		res.ClearErr = deps.Store.Clear(ctx)
		res.Cleared = res.ClearErr == nil
	}

	return res
}
