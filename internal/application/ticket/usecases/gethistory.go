package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/logger"
)

type GetTicketHistoryQuery struct {
	TicketID uint
	// RequesterID and IsAdmin gate access: a plain user may only read their
	// own ticket.
	RequesterID int64
	IsAdmin     bool
}

type HistoryMessage struct {
	Kind      string
	AuthorID  int64
	Text      string
	CreatedAt time.Time
	MediaURLs []string
}

type GetTicketHistoryResult struct {
	TicketID uint
	Subject  string
	Status   string
	Messages []HistoryMessage
}

type GetTicketHistoryUseCase struct {
	ticketRepo ticket.Repository
	logger     logger.Interface
}

func NewGetTicketHistoryUseCase(ticketRepo ticket.Repository, logger logger.Interface) *GetTicketHistoryUseCase {
	return &GetTicketHistoryUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *GetTicketHistoryUseCase) Execute(ctx context.Context, query GetTicketHistoryQuery) (*GetTicketHistoryResult, error) {
	if query.TicketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}

	t, err := uc.ticketRepo.GetByID(ctx, query.TicketID)
	if err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			return nil, err
		}
		uc.logger.Errorw("failed to load ticket", "ticket_id", query.TicketID, "error", err)
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	if !query.IsAdmin && t.UserID() != query.RequesterID {
		return nil, ticket.ErrNotTicketOwner
	}

	entries, err := uc.ticketRepo.GetHistory(ctx, query.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket history", "ticket_id", query.TicketID, "error", err)
		return nil, fmt.Errorf("failed to load ticket history: %w", err)
	}

	messages := make([]HistoryMessage, 0, len(entries))
	for _, e := range entries {
		urls := make([]string, 0, len(e.Media))
		for _, m := range e.Media {
			urls = append(urls, m.FileURL())
		}
		messages = append(messages, HistoryMessage{
			Kind:      string(e.Kind),
			AuthorID:  e.AuthorID,
			Text:      e.Text,
			CreatedAt: e.CreatedAt,
			MediaURLs: urls,
		})
	}

	return &GetTicketHistoryResult{
		TicketID: t.ID(),
		Subject:  t.Subject(),
		Status:   t.Status().String(),
		Messages: messages,
	}, nil
}
