// Package delivery models outbound messages as transport-agnostic intents.
// The engine emits intents; a gateway turns them into actual sends and hands
// back the correlation token the transport attached to the message.
package delivery

import (
	"fmt"

	"helpdesk/internal/domain/ticket"
)

type Kind string

const (
	// KindAutoAnswer carries a confident automated answer to the asking user.
	KindAutoAnswer Kind = "auto_answer"
	// KindAdminNotification fans an escalated question out to an admin.
	KindAdminNotification Kind = "admin_notification"
	// KindTicketAck acknowledges escalation to the asking user.
	KindTicketAck Kind = "ticket_ack"
	// KindAnswerToUser carries an admin answer to the ticket owner.
	KindAnswerToUser Kind = "answer_to_user"
	// KindClosedNotice tells a sender their message hit a closed or unknown
	// ticket instead of silently dropping it.
	KindClosedNotice Kind = "closed_notice"
	// KindCloseConfirmation confirms a close to the user or the admin pool.
	KindCloseConfirmation Kind = "close_confirmation"
)

// Intent is one outbound message. Media references pass through unmodified.
type Intent struct {
	Kind        Kind
	RecipientID int64
	TicketID    uint
	Subject     string
	Text        string
	Media       []*ticket.Media
}

func (i Intent) Validate() error {
	if i.RecipientID == 0 {
		return fmt.Errorf("delivery intent requires a recipient")
	}
	if i.Kind == "" {
		return fmt.Errorf("delivery intent requires a kind")
	}
	return nil
}
