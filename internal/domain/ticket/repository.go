package ticket

import (
	"context"
	"time"
)

// Repository is the durable ticket store. Implementations must serialize
// mutations per ticket identity (the engine additionally holds a per-ticket
// lock) and keep answer ordering stable by commit order.
type Repository interface {
	// Save persists a new ticket together with its triggering question
	// atomically and assigns identities.
	Save(ctx context.Context, t *Ticket) error
	// Update persists ticket state (status flags, timestamps).
	Update(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)

	// SaveQuestion appends an already-linked follow-up question row.
	SaveQuestion(ctx context.Context, q *Question) error
	// SaveAnswer appends an answer row; commit order defines answer order.
	SaveAnswer(ctx context.Context, a *Answer) error

	ListActive(ctx context.Context, offset, limit int) ([]*TicketSummary, error)
	ListClosed(ctx context.Context) ([]*Ticket, error)
	GetUserTickets(ctx context.Context, userID int64) ([]*Ticket, error)
	GetUserClosedTickets(ctx context.Context, userID int64) ([]*Ticket, error)
	GetHistory(ctx context.Context, ticketID uint) ([]HistoryEntry, error)
}

// QuestionRepository stores questions that are not (or not yet) linked to a
// ticket, so auto-answered questions leave an audit trail too.
type QuestionRepository interface {
	Save(ctx context.Context, q *Question) error
}

// TicketSummary is a listing row: the ticket plus the display name of the
// admin who answered last, for the admin overview.
type TicketSummary struct {
	Ticket        *Ticket
	LastAdminName string
}

// HistoryEntry is one message in a ticket's merged question/answer timeline,
// ordered by creation time.
type HistoryEntry struct {
	Kind      HistoryKind
	AuthorID  int64
	Text      string
	CreatedAt time.Time
	Media     []*Media
}

type HistoryKind string

const (
	HistoryQuestion HistoryKind = "question"
	HistoryAnswer   HistoryKind = "answer"
)
