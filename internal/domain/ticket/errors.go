package ticket

import "errors"

var (
	// ErrTicketClosed rejects questions or answers arriving after a ticket
	// left the open state. The caller must still notify the sender.
	ErrTicketClosed = errors.New("ticket is closed")

	ErrTicketNotFound = errors.New("ticket not found")

	// ErrNotTicketOwner rejects a non-admin acting on someone else's ticket.
	ErrNotTicketOwner = errors.New("ticket belongs to another user")
)
