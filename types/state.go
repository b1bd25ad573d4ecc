package types

// State represents the scheduler lifecycle state of a pipeline.
//
// The state machine is deliberately small:
//
//	StateStopped → StateRunning → StateStopped
//
// The transition guard is an atomic compare-and-set owned by the pipeline, so
// concurrent joins and leaves trigger the start/stop action exactly once
// regardless of how many goroutines race on the transition.
type State int

const (
	// StateStopped indicates no periodic passes are scheduled.
	StateStopped State = iota

	// StateRunning indicates the periodic pass loop is active.
	StateRunning
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}
