package goSession

import "context"

type stateContextKey struct{}

// WithState attaches a session snapshot to ctx. The route guard uses it to
// hand the state it decided on to the protected handler.
func WithState(ctx context.Context, st State) context.Context {
	return context.WithValue(ctx, stateContextKey{}, st)
}

// StateFromContext returns the snapshot stored by [WithState].
func StateFromContext(ctx context.Context) (State, bool) {
	if ctx == nil {
		return State{}, false
	}
	st, ok := ctx.Value(stateContextKey{}).(State)
	return st, ok
}
