package valueobjects

import "fmt"

// Status is the ticket lifecycle state. A ticket starts open and is closed
// exactly once, by either party. There is no transition out of a closed
// state; a reopen request becomes a new ticket.
type Status string

const (
	StatusOpen          Status = "open"
	StatusClosedByUser  Status = "closed_by_user"
	StatusClosedByAdmin Status = "closed_by_admin"
)

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %q", s)
	}
	return status, nil
}

// StatusFromFlags derives the state from the persisted active/closed_by_user
// flag pair.
func StatusFromFlags(active, closedByUser bool) Status {
	switch {
	case active:
		return StatusOpen
	case closedByUser:
		return StatusClosedByUser
	default:
		return StatusClosedByAdmin
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusClosedByUser, StatusClosedByAdmin:
		return true
	}
	return false
}

func (s Status) IsOpen() bool {
	return s == StatusOpen
}

func (s Status) IsClosed() bool {
	return s == StatusClosedByUser || s == StatusClosedByAdmin
}

// Flags returns the persisted representation (active, closed_by_user).
func (s Status) Flags() (active, closedByUser bool) {
	switch s {
	case StatusOpen:
		return true, false
	case StatusClosedByUser:
		return false, true
	default:
		return false, false
	}
}

func (s Status) CanTransitionTo(target Status) bool {
	if !target.IsValid() {
		return false
	}
	// Only open tickets move, and only into a closed state.
	return s == StatusOpen && target.IsClosed()
}
