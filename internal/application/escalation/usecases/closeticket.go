package usecases

import (
	"context"
	"fmt"

	"helpdesk/internal/domain/delivery"
	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/keymutex"
	"helpdesk/internal/shared/logger"
)

type CloseTicketCommand struct {
	TicketID    uint
	InitiatorID int64
	ByAdmin     bool
}

type CloseTicketResult struct {
	Status vo.Status
	// AlreadyClosed reports the ticket was closed before this request; the
	// existing closed state is returned unchanged.
	AlreadyClosed bool
}

type CloseTicketUseCase struct {
	ticketRepo ticket.Repository
	userRepo   user.Repository
	dispatcher Dispatcher
	locks      *keymutex.KeyMutex
	txMgr      TransactionManager
	logger     logger.Interface
}

func NewCloseTicketUseCase(
	ticketRepo ticket.Repository,
	userRepo user.Repository,
	dispatcher Dispatcher,
	locks *keymutex.KeyMutex,
	txMgr TransactionManager,
	logger logger.Interface,
) *CloseTicketUseCase {
	return &CloseTicketUseCase{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		locks:      locks,
		txMgr:      txMgr,
		logger:     logger,
	}
}

func (uc *CloseTicketUseCase) Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error) {
	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	uc.locks.Lock(cmd.TicketID)
	defer uc.locks.Unlock(cmd.TicketID)

	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	if !t.IsActive() {
		uc.logger.Infow("close request against already closed ticket",
			"ticket_id", cmd.TicketID, "status", t.Status().String())
		return &CloseTicketResult{Status: t.Status(), AlreadyClosed: true}, nil
	}

	if !cmd.ByAdmin && t.UserID() != cmd.InitiatorID {
		return nil, ticket.ErrNotTicketOwner
	}

	if cmd.ByAdmin {
		t.CloseByAdmin()
	} else {
		t.CloseByUser()
	}

	if err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return uc.ticketRepo.Update(txCtx, t)
	}); err != nil {
		uc.logger.Errorw("failed to persist close", "ticket_id", cmd.TicketID, "error", err)
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	uc.confirmClose(ctx, t)

	uc.logger.Infow("ticket closed",
		"ticket_id", cmd.TicketID, "status", t.Status().String(), "by_admin", cmd.ByAdmin)

	return &CloseTicketResult{Status: t.Status()}, nil
}

func (uc *CloseTicketUseCase) validateCommand(cmd CloseTicketCommand) error {
	if cmd.TicketID == 0 {
		return fmt.Errorf("ticket ID is required")
	}
	// Admin closes may come from the dashboard, which has no chat identity.
	if cmd.InitiatorID == 0 && !cmd.ByAdmin {
		return fmt.Errorf("initiator ID is required")
	}
	return nil
}

// confirmClose sends confirmation intents to the ticket owner and the admin
// pool. Delivery failures are logged; the close itself is already durable.
func (uc *CloseTicketUseCase) confirmClose(ctx context.Context, t *ticket.Ticket) {
	if _, err := uc.dispatcher.Dispatch(ctx, delivery.Intent{
		Kind:        delivery.KindCloseConfirmation,
		RecipientID: t.UserID(),
		TicketID:    t.ID(),
		Subject:     t.Subject(),
	}); err != nil {
		uc.logger.Errorw("failed to confirm close to user", "ticket_id", t.ID(), "error", err)
	}

	admins, err := uc.userRepo.ListAdmins(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list admins for close confirmation",
			"ticket_id", t.ID(), "error", err)
		return
	}
	for _, admin := range admins {
		if _, err := uc.dispatcher.Dispatch(ctx, delivery.Intent{
			Kind:        delivery.KindCloseConfirmation,
			RecipientID: admin.TelegramID(),
			TicketID:    t.ID(),
			Subject:     t.Subject(),
		}); err != nil {
			uc.logger.Errorw("failed to confirm close to admin",
				"ticket_id", t.ID(), "admin_id", admin.TelegramID(), "error", err)
		}
	}
}
