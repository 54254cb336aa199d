package coordinator

// State is the coordinator's event-handling state.
type State int

const (
	StateIdle State = iota
	StateHandling
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHandling:
		return "handling"
	case StateTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}
