package yamoritypes

// RunState is the per-test execution state tracked by the engine.
type RunState int

const (
	// RunStatePending - test accepted, nothing started yet
	RunStatePending RunState = iota
	// RunStateBuilding - running pre-build commands
	RunStateBuilding
	// RunStateRunning - target command spawned and under the watchdog
	RunStateRunning
	// RunStateComparing - captured stdout being checked against expected output
	RunStateComparing
	// RunStateDone - terminal status assigned
	RunStateDone
)

// String returns a human-readable representation of the run state.
func (s RunState) String() string {
	switch s {
	case RunStatePending:
		return "Pending"
	case RunStateBuilding:
		return "Building"
	case RunStateRunning:
		return "Running"
	case RunStateComparing:
		return "Comparing"
	case RunStateDone:
		return "Done"
	default:
		return "Unknown"
	}
}
