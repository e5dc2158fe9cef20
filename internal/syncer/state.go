package syncer

// State is the lifecycle of one synchronized data set.
//
// States progress Loading → Ready after the initial store read; local
// mutations and merged change events keep the set in Ready.
type State int

const (
	// StateLoading means the initial read from the store has not finished;
	// snapshots are empty and must not be trusted.
	StateLoading State = iota

	// StateReady means the cache holds the authoritative local view.
	StateReady
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	default:
		return "Unknown"
	}
}
