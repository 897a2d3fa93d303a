package grid

import "time"

// Phase is the lifecycle tag of the grid overlay.
type Phase int

const (
	// PhaseUninitialized means no build has been requested yet.
	PhaseUninitialized Phase = iota

	// PhasePending means the first build is in flight.
	PhasePending

	// PhaseReady means a verified grid is on the surface.
	PhaseReady

	// PhaseDegraded is terminal: the retry budget is exhausted and the
	// caller must request explicit remediation.
	PhaseDegraded

	// PhaseRepairing means the monitor detected a violation and a repair
	// is in flight.
	PhaseRepairing
)

// String returns the display name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhasePending:
		return "pending"
	case PhaseReady:
		return "ready"
	case PhaseDegraded:
		return "degraded"
	case PhaseRepairing:
		return "repairing"
	default:
		return "unknown"
	}
}

// State is the observable lifecycle state of the grid. Exactly one State
// exists per managed surface.
type State struct {
	Phase          Phase
	LastVerifiedAt time.Time
	AttemptCount   int
	LockToken      string
	Repairs        int
}
