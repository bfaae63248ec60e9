package lifecycle

import "errors"

// ErrInvalidTransition is returned when a transition is called from the wrong state.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// State is a lifecycle stage of the player process.
type State int

const (
	StateUnconfigured State = iota
	StateConfigured
	StateSubsystemsUp
	StateRunning
	StateSubsystemsDown
	StateTerminated
)

var stateNames = map[State]string{
	StateUnconfigured:   "unconfigured",
	StateConfigured:     "configured",
	StateSubsystemsUp:   "subsystems-up",
	StateRunning:        "running",
	StateSubsystemsDown: "subsystems-down",
	StateTerminated:     "terminated",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// transitions lists the legal moves. A failed start goes straight from
// Configured to SubsystemsDown.
var transitions = map[State][]State{
	StateUnconfigured:   {StateConfigured},
	StateConfigured:     {StateSubsystemsUp, StateSubsystemsDown},
	StateSubsystemsUp:   {StateRunning},
	StateRunning:        {StateSubsystemsDown},
	StateSubsystemsDown: {StateTerminated},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
