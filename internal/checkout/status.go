package checkout

// State is the orchestrator's position in the checkout lifecycle.
type State string

const (
	StateIdle       State = "IDLE"
	StateProcessing State = "PROCESSING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

func (s State) String() string {
	return string(s)
}

// CanTransitionTo reports whether the lifecycle allows moving to target.
//
//	idle -> processing
//	processing -> succeeded | failed
//	succeeded | failed -> processing | idle
func (s State) CanTransitionTo(target State) bool {
	switch s {
	case StateIdle:
		return target == StateProcessing
	case StateProcessing:
		return target == StateSucceeded || target == StateFailed
	case StateSucceeded, StateFailed:
		return target == StateProcessing || target == StateIdle
	default:
		return false
	}
}
