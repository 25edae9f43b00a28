package usecases

import (
	"context"
	"fmt"
	"time"

	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/logger"
)

type ListActiveTicketsQuery struct {
	Offset int
	Limit  int
}

type TicketListItem struct {
	TicketID      uint
	UserID        int64
	Subject       string
	Status        string
	CreatedAt     time.Time
	LastUpdated   time.Time
	LastAdminName string
}

type ListActiveTicketsResult struct {
	Tickets []TicketListItem
}

type ListActiveTicketsUseCase struct {
	ticketRepo ticket.Repository
	logger     logger.Interface
}

func NewListActiveTicketsUseCase(ticketRepo ticket.Repository, logger logger.Interface) *ListActiveTicketsUseCase {
	return &ListActiveTicketsUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *ListActiveTicketsUseCase) Execute(ctx context.Context, query ListActiveTicketsQuery) (*ListActiveTicketsResult, error) {
	summaries, err := uc.ticketRepo.ListActive(ctx, query.Offset, query.Limit)
	if err != nil {
		uc.logger.Errorw("failed to list active tickets", "error", err)
		return nil, fmt.Errorf("failed to list active tickets: %w", err)
	}

	items := make([]TicketListItem, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, TicketListItem{
			TicketID:      s.Ticket.ID(),
			UserID:        s.Ticket.UserID(),
			Subject:       s.Ticket.Subject(),
			Status:        s.Ticket.Status().String(),
			CreatedAt:     s.Ticket.CreatedAt(),
			LastUpdated:   s.Ticket.LastUpdated(),
			LastAdminName: s.LastAdminName,
		})
	}
	return &ListActiveTicketsResult{Tickets: items}, nil
}

type ListUserTicketsQuery struct {
	UserID int64
}

type ListUserTicketsResult struct {
	Tickets []TicketListItem
}

// ListUserTicketsUseCase lists every ticket a user ever opened, newest
// activity first, for the self-service listing.
type ListUserTicketsUseCase struct {
	ticketRepo ticket.Repository
	logger     logger.Interface
}

func NewListUserTicketsUseCase(ticketRepo ticket.Repository, logger logger.Interface) *ListUserTicketsUseCase {
	return &ListUserTicketsUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *ListUserTicketsUseCase) Execute(ctx context.Context, query ListUserTicketsQuery) (*ListUserTicketsResult, error) {
	if query.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	tickets, err := uc.ticketRepo.GetUserTickets(ctx, query.UserID)
	if err != nil {
		uc.logger.Errorw("failed to list user tickets", "user_id", query.UserID, "error", err)
		return nil, fmt.Errorf("failed to list user tickets: %w", err)
	}

	items := make([]TicketListItem, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, TicketListItem{
			TicketID:    t.ID(),
			UserID:      t.UserID(),
			Subject:     t.Subject(),
			Status:      t.Status().String(),
			CreatedAt:   t.CreatedAt(),
			LastUpdated: t.LastUpdated(),
		})
	}
	return &ListUserTicketsResult{Tickets: items}, nil
}

type ListClosedTicketsQuery struct {
	// UserID restricts the listing to one user's closed tickets when set.
	UserID int64
}

type ListClosedTicketsResult struct {
	Tickets []TicketListItem
}

type ListClosedTicketsUseCase struct {
	ticketRepo ticket.Repository
	logger     logger.Interface
}

func NewListClosedTicketsUseCase(ticketRepo ticket.Repository, logger logger.Interface) *ListClosedTicketsUseCase {
	return &ListClosedTicketsUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *ListClosedTicketsUseCase) Execute(ctx context.Context, query ListClosedTicketsQuery) (*ListClosedTicketsResult, error) {
	var (
		tickets []*ticket.Ticket
		err     error
	)
	if query.UserID != 0 {
		tickets, err = uc.ticketRepo.GetUserClosedTickets(ctx, query.UserID)
	} else {
		tickets, err = uc.ticketRepo.ListClosed(ctx)
	}
	if err != nil {
		uc.logger.Errorw("failed to list closed tickets", "user_id", query.UserID, "error", err)
		return nil, fmt.Errorf("failed to list closed tickets: %w", err)
	}

	items := make([]TicketListItem, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, TicketListItem{
			TicketID:    t.ID(),
			UserID:      t.UserID(),
			Subject:     t.Subject(),
			Status:      t.Status().String(),
			CreatedAt:   t.CreatedAt(),
			LastUpdated: t.LastUpdated(),
		})
	}
	return &ListClosedTicketsResult{Tickets: items}, nil
}
