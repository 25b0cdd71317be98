package entity

// Report lifecycle statuses. The flow is
// submitted → acknowledged → assigned → in_progress → resolved,
// with rejected reachable from any non-terminal state. Officers may
// skip forward (e.g. submitted → assigned); only terminality is hard.
const (
	StatusSubmitted    = "submitted"
	StatusAcknowledged = "acknowledged"
	StatusAssigned     = "assigned"
	StatusInProgress   = "in_progress"
	StatusResolved     = "resolved"
	StatusRejected     = "rejected"
)

var validStatuses = map[string]bool{
	StatusSubmitted:    true,
	StatusAcknowledged: true,
	StatusAssigned:     true,
	StatusInProgress:   true,
	StatusResolved:     true,
	StatusRejected:     true,
}

func ValidStatus(s string) bool {
	return validStatuses[s]
}

// TerminalStatus reports whether s can never be left again.
func TerminalStatus(s string) bool {
	return s == StatusResolved || s == StatusRejected
}

// OpenStatus = still eligible for duplicate linkage and assignment.
func OpenStatus(s string) bool {
	return !TerminalStatus(s)
}
