package goSession

import "time"

// Phase is the gate's position in its state machine.
type Phase uint8

const (
	// PhaseUnresolved is the boot-time state; consumers must not decide yet.
	PhaseUnresolved Phase = iota
	PhaseAuthenticated
	PhaseUnauthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseUnresolved:
		return "unresolved"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the session gate.
//
// Loading is true only until the boot check settles. Version increases by one
// with every published change, so subscribers can discard stale snapshots.
type State struct {
	Authenticated bool      `json:"authenticated"`
	Loading       bool      `json:"loading"`
	Version       uint64    `json:"version"`
	ChangedAt     time.Time `json:"changed_at"`
}

// Phase derives the state-machine phase from the snapshot.
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseUnresolved
	case s.Authenticated:
		return PhaseAuthenticated
	default:
		return PhaseUnauthenticated
	}
}
