package usecases

import (
	"context"
	"errors"
	"fmt"

	"helpdesk/internal/domain/delivery"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/keymutex"
	"helpdesk/internal/shared/logger"
)

type HandleAdminReplyCommand struct {
	AdminID          int64
	CorrelationToken string
	Text             string
	Media            []*ticket.Media
}

type HandleAdminReplyResult struct {
	AnswerID uint
	TicketID uint
	// TicketClosed reports the reply resolved to a ticket that was already
	// closed; the admin got a notice and nothing was appended.
	TicketClosed bool
	UserNotified bool
}

type HandleAdminReplyUseCase struct {
	ticketRepo   ticket.Repository
	userRepo     user.Repository
	dispatcher   Dispatcher
	correlations delivery.CorrelationStore
	locks        *keymutex.KeyMutex
	txMgr        TransactionManager
	logger       logger.Interface
}

func NewHandleAdminReplyUseCase(
	ticketRepo ticket.Repository,
	userRepo user.Repository,
	dispatcher Dispatcher,
	correlations delivery.CorrelationStore,
	locks *keymutex.KeyMutex,
	txMgr TransactionManager,
	logger logger.Interface,
) *HandleAdminReplyUseCase {
	return &HandleAdminReplyUseCase{
		ticketRepo:   ticketRepo,
		userRepo:     userRepo,
		dispatcher:   dispatcher,
		correlations: correlations,
		locks:        locks,
		txMgr:        txMgr,
		logger:       logger,
	}
}

func (uc *HandleAdminReplyUseCase) Execute(ctx context.Context, cmd HandleAdminReplyCommand) (*HandleAdminReplyResult, error) {
	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	sender, err := uc.userRepo.GetByTelegramID(ctx, cmd.AdminID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sender: %w", err)
	}
	if !sender.IsAdmin() {
		return nil, fmt.Errorf("sender %d is not an administrator", cmd.AdminID)
	}

	ticketID, err := uc.correlations.Resolve(ctx, cmd.CorrelationToken)
	if err != nil {
		if errors.Is(err, delivery.ErrUnresolvedCorrelation) {
			uc.notifyUnresolved(ctx, cmd.AdminID, 0)
			return nil, delivery.ErrUnresolvedCorrelation
		}
		return nil, fmt.Errorf("failed to resolve correlation token: %w", err)
	}

	uc.locks.Lock(ticketID)
	defer uc.locks.Unlock(ticketID)

	// Re-read under the lock so a concurrent close is observed.
	t, err := uc.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			uc.notifyUnresolved(ctx, cmd.AdminID, ticketID)
			return nil, delivery.ErrUnresolvedCorrelation
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	if !t.IsActive() {
		uc.logger.Infow("admin reply hit closed ticket",
			"ticket_id", ticketID, "admin_id", cmd.AdminID)
		if _, derr := uc.dispatcher.Dispatch(ctx, delivery.Intent{
			Kind:        delivery.KindClosedNotice,
			RecipientID: cmd.AdminID,
			TicketID:    ticketID,
		}); derr != nil {
			uc.logger.Errorw("failed to deliver closed notice", "ticket_id", ticketID, "error", derr)
		}
		return &HandleAdminReplyResult{TicketID: ticketID, TicketClosed: true}, ticket.ErrTicketClosed
	}

	a, err := ticket.NewAnswer(ticketID, cmd.AdminID, cmd.Text, cmd.Media)
	if err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}
	if err := t.AppendAnswer(a); err != nil {
		return nil, fmt.Errorf("failed to append answer: %w", err)
	}

	if err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.ticketRepo.SaveAnswer(txCtx, a); err != nil {
			return fmt.Errorf("failed to save answer: %w", err)
		}
		if err := uc.ticketRepo.Update(txCtx, t); err != nil {
			return fmt.Errorf("failed to update ticket: %w", err)
		}
		return nil
	}); err != nil {
		uc.logger.Errorw("failed to persist answer", "ticket_id", ticketID, "error", err)
		return nil, err
	}

	// State is committed; delivery failure must not roll it back.
	notified := true
	answerToken, err := uc.dispatcher.Dispatch(ctx, delivery.Intent{
		Kind:        delivery.KindAnswerToUser,
		RecipientID: t.UserID(),
		TicketID:    ticketID,
		Subject:     t.Subject(),
		Text:        cmd.Text,
		Media:       cmd.Media,
	})
	if err != nil {
		uc.logger.Errorw("failed to deliver answer to user",
			"ticket_id", ticketID, "user_id", t.UserID(), "error", err)
		notified = false
	}
	// Binding the answer token lets the user thread a follow-up by replying
	// to the answer message.
	if answerToken != "" {
		if err := uc.correlations.Bind(ctx, answerToken, ticketID); err != nil {
			uc.logger.Errorw("failed to bind answer correlation token", "ticket_id", ticketID, "error", err)
		}
	}

	uc.logger.Infow("admin reply appended",
		"ticket_id", ticketID, "admin_id", cmd.AdminID, "answer_id", a.ID())

	return &HandleAdminReplyResult{
		AnswerID:     a.ID(),
		TicketID:     ticketID,
		UserNotified: notified,
	}, nil
}

func (uc *HandleAdminReplyUseCase) validateCommand(cmd HandleAdminReplyCommand) error {
	if cmd.AdminID == 0 {
		return fmt.Errorf("admin ID is required")
	}
	if cmd.CorrelationToken == "" {
		return fmt.Errorf("correlation token is required")
	}
	if len(cmd.Text) == 0 && len(cmd.Media) == 0 {
		return fmt.Errorf("reply must carry text or media")
	}
	return nil
}

func (uc *HandleAdminReplyUseCase) notifyUnresolved(ctx context.Context, adminID int64, ticketID uint) {
	uc.logger.Warnw("admin reply could not be resolved", "admin_id", adminID, "ticket_id", ticketID)
	if _, err := uc.dispatcher.Dispatch(ctx, delivery.Intent{
		Kind:        delivery.KindClosedNotice,
		RecipientID: adminID,
		TicketID:    ticketID,
	}); err != nil {
		uc.logger.Errorw("failed to deliver unresolved notice", "admin_id", adminID, "error", err)
	}
}
