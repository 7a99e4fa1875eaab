package host

// State is the lifecycle state of a detail view.
type State int

const (
	StateLoading State = iota
	StateReady
	StateRefreshing
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateRefreshing:
		return "refreshing"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state name so surfaces can forward it as JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// canTransition enforces Loading -> Ready -> (Refreshing -> Ready)* with
// Disposed reachable from every other state and never left.
func (s State) canTransition(to State) bool {
	switch {
	case s == StateDisposed:
		return false
	case to == StateDisposed:
		return true
	case s == StateLoading:
		return to == StateReady
	case s == StateReady:
		return to == StateRefreshing
	case s == StateRefreshing:
		return to == StateReady
	}
	return false
}
