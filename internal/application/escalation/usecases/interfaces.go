package usecases

import (
	"context"

	"helpdesk/internal/domain/delivery"
)

// Dispatcher sends one intent with bounded retries and returns the transport
// correlation token for sends a reply can arrive against.
type Dispatcher interface {
	Dispatch(ctx context.Context, intent delivery.Intent) (correlationToken string, err error)
}

// TransactionManager scopes a function to one database transaction.
// Satisfied by db.TransactionManager.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type HandleQuestionExecutor interface {
	Execute(ctx context.Context, cmd HandleQuestionCommand) (*HandleQuestionResult, error)
}

type HandleAdminReplyExecutor interface {
	Execute(ctx context.Context, cmd HandleAdminReplyCommand) (*HandleAdminReplyResult, error)
}

type CloseTicketExecutor interface {
	Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error)
}
