package usecases

import "context"

type ListActiveTicketsExecutor interface {
	Execute(ctx context.Context, query ListActiveTicketsQuery) (*ListActiveTicketsResult, error)
}

type ListUserTicketsExecutor interface {
	Execute(ctx context.Context, query ListUserTicketsQuery) (*ListUserTicketsResult, error)
}

type ListClosedTicketsExecutor interface {
	Execute(ctx context.Context, query ListClosedTicketsQuery) (*ListClosedTicketsResult, error)
}

type GetTicketHistoryExecutor interface {
	Execute(ctx context.Context, query GetTicketHistoryQuery) (*GetTicketHistoryResult, error)
}
