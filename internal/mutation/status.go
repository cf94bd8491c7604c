package mutation

// Status is the lifecycle phase of an Action.
type Status int

// Status values. A call moves Pending -> (Success | Error) -> Settled.
const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
	StatusSettled
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether s is one of the two per-call outcomes.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}
