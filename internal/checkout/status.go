package checkout

// Status is the checkout flow's position in its state machine.
type Status string

const (
	StatusIdle         Status = "IDLE"
	StatusInitializing Status = "INITIALIZING"
	StatusReady        Status = "READY"
	StatusPresenting   Status = "PRESENTING"
	StatusSucceeded    Status = "SUCCEEDED"
	StatusFailed       Status = "FAILED"
)

func (s Status) IsTerminal() bool {
	return s == StatusSucceeded
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

// CanTransition reports whether moving from one status to another is legal.
// Initialization may be (re)started from any settled state; it may not be
// started while a round-trip or the payment sheet is already in flight.
func CanTransition(from, to Status) bool {
	switch to {
	case StatusInitializing:
		return from == StatusIdle || from == StatusReady || from == StatusFailed
	case StatusReady:
		return from == StatusInitializing || from == StatusPresenting
	case StatusFailed:
		return from == StatusInitializing
	case StatusPresenting:
		return from == StatusReady
	case StatusSucceeded:
		return from == StatusPresenting
	case StatusIdle:
		return true // abandoning resets from anywhere
	}
	return false
}
