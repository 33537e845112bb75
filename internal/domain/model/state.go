package model

// State is the aggregate CI state of a commit, drawn from the union of the
// Status API state vocabulary and the Checks API conclusion vocabulary.
// The zero value StateNone means no status records exist at all.
type State string

const (
	StateNone           State = ""
	StateNeutral        State = "neutral"
	StateSuccess        State = "success"
	StatePending        State = "pending"
	StateCancelled      State = "cancelled"
	StateTimedOut       State = "timed_out"
	StateActionRequired State = "action_required"
	StateFailure        State = "failure"
	StateError          State = "error"
)

// severity ranks states so that the worst outcome wins when a commit carries
// several simultaneous statuses. States outside the known vocabulary rank
// below everything recognized.
func severity(s State) int {
	switch s {
	case StateNeutral:
		return 1
	case StateSuccess:
		return 2
	case StatePending:
		return 3
	case StateCancelled:
		return 4
	case StateTimedOut:
		return 5
	case StateActionRequired:
		return 6
	case StateFailure:
		return 7
	case StateError:
		return 8
	default:
		return 0
	}
}

// Overall reduces a set of status records to the single highest-severity
// state present. An empty set reduces to StateNone.
func Overall(statuses []Status) State {
	state := StateNone
	rank := -1
	for _, s := range statuses {
		if r := severity(State(s.State)); r > rank {
			state = State(s.State)
			rank = r
		}
	}
	return state
}

// ExitCode maps a state to the process exit code contract: 0 for a passing
// commit, 1 for any failing-family state, 2 while work is still pending, and
// 3 when there is no recognizable status at all.
func (s State) ExitCode() int {
	switch s {
	case StateNeutral, StateSuccess:
		return 0
	case StateCancelled, StateTimedOut, StateActionRequired, StateFailure, StateError:
		return 1
	case StatePending:
		return 2
	default:
		return 3
	}
}
