package usecases

import (
	"context"
	"errors"
	"fmt"

	"helpdesk/internal/domain/delivery"
	"helpdesk/internal/domain/retrieval"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/keymutex"
	"helpdesk/internal/shared/logger"
)

type HandleQuestionCommand struct {
	UserID int64
	Text   string
	Media  []*ticket.Media
	// TicketID threads the question onto an existing ticket. It is only set
	// when the sender explicitly replied to an earlier escalation message;
	// without it a fresh ticket is opened.
	TicketID uint
}

type HandleQuestionResult struct {
	// Answered reports the question was resolved automatically; no ticket
	// exists for it.
	Answered   bool
	AnswerText string
	TicketID   uint
	// FollowUp reports the question was appended to an existing ticket.
	FollowUp bool
	// TicketClosed reports the threaded-onto ticket was already closed; the
	// sender got a notice and no state changed.
	TicketClosed   bool
	NotifiedAdmins int
}

type HandleQuestionUseCase struct {
	ticketRepo   ticket.Repository
	questionRepo ticket.QuestionRepository
	userRepo     user.Repository
	gate         retrieval.Gate
	dispatcher   Dispatcher
	correlations delivery.CorrelationStore
	locks        *keymutex.KeyMutex
	txMgr        TransactionManager
	logger       logger.Interface
}

func NewHandleQuestionUseCase(
	ticketRepo ticket.Repository,
	questionRepo ticket.QuestionRepository,
	userRepo user.Repository,
	gate retrieval.Gate,
	dispatcher Dispatcher,
	correlations delivery.CorrelationStore,
	locks *keymutex.KeyMutex,
	txMgr TransactionManager,
	logger logger.Interface,
) *HandleQuestionUseCase {
	return &HandleQuestionUseCase{
		ticketRepo:   ticketRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
		gate:         gate,
		dispatcher:   dispatcher,
		correlations: correlations,
		locks:        locks,
		txMgr:        txMgr,
		logger:       logger,
	}
}

func (uc *HandleQuestionUseCase) Execute(ctx context.Context, cmd HandleQuestionCommand) (*HandleQuestionResult, error) {
	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	uc.logger.Infow("handling inbound question", "user_id", cmd.UserID, "ticket_id", cmd.TicketID)

	if cmd.TicketID != 0 {
		return uc.appendFollowUp(ctx, cmd)
	}
	return uc.handleFresh(ctx, cmd)
}

// handleFresh runs the decision for a question with no usable ticket context:
// a confident verdict answers in place, anything else opens a ticket.
func (uc *HandleQuestionUseCase) handleFresh(ctx context.Context, cmd HandleQuestionCommand) (*HandleQuestionResult, error) {
	verdict := uc.consultGate(ctx, cmd.Text)
	if verdict.Confident {
		return uc.autoAnswer(ctx, cmd, verdict)
	}
	return uc.escalate(ctx, cmd)
}

func (uc *HandleQuestionUseCase) validateCommand(cmd HandleQuestionCommand) error {
	if cmd.UserID == 0 {
		return fmt.Errorf("user ID is required")
	}
	if len(cmd.Text) == 0 && len(cmd.Media) == 0 {
		return fmt.Errorf("question must carry text or media")
	}
	return nil
}

// consultGate asks the retrieval collaborator for a verdict. A timeout or
// any other gate failure degrades to a no-match verdict so the question is
// escalated instead of lost.
func (uc *HandleQuestionUseCase) consultGate(ctx context.Context, text string) *retrieval.Verdict {
	verdict, err := uc.gate.Answer(ctx, text)
	if err != nil {
		if errors.Is(err, retrieval.ErrTimeout) {
			uc.logger.Warnw("retrieval gate timed out, escalating", "error", err)
		} else {
			uc.logger.Warnw("retrieval gate failed, escalating", "error", err)
		}
		return &retrieval.Verdict{Confident: false}
	}
	return verdict
}

func (uc *HandleQuestionUseCase) autoAnswer(ctx context.Context, cmd HandleQuestionCommand, verdict *retrieval.Verdict) (*HandleQuestionResult, error) {
	q, err := ticket.NewQuestion(cmd.UserID, cmd.Text, ticket.ExtractSubject(cmd.Text), cmd.Media)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	// The question is stored unlinked for audit; no ticket is created.
	if err := uc.questionRepo.Save(ctx, q); err != nil {
		uc.logger.Errorw("failed to save auto-answered question", "user_id", cmd.UserID, "error", err)
		return nil, fmt.Errorf("failed to save question: %w", err)
	}

	if _, err := uc.dispatcher.Dispatch(ctx, delivery.Intent{
		Kind:        delivery.KindAutoAnswer,
		RecipientID: cmd.UserID,
		Text:        verdict.AnswerText,
	}); err != nil {
		uc.logger.Errorw("failed to deliver auto answer", "user_id", cmd.UserID, "error", err)
	}

	uc.logger.Infow("question answered automatically",
		"user_id", cmd.UserID, "confidence", verdict.Confidence)

	return &HandleQuestionResult{Answered: true, AnswerText: verdict.AnswerText}, nil
}

func (uc *HandleQuestionUseCase) escalate(ctx context.Context, cmd HandleQuestionCommand) (*HandleQuestionResult, error) {
	q, err := ticket.NewQuestion(cmd.UserID, cmd.Text, ticket.ExtractSubject(cmd.Text), cmd.Media)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	t, err := ticket.NewTicket(cmd.UserID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	// Ticket and its triggering question are persisted atomically.
	if err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return uc.ticketRepo.Save(txCtx, t)
	}); err != nil {
		uc.logger.Errorw("failed to save ticket", "user_id", cmd.UserID, "error", err)
		return nil, fmt.Errorf("failed to save ticket: %w", err)
	}

	ackToken, err := uc.dispatcher.Dispatch(ctx, delivery.Intent{
		Kind:        delivery.KindTicketAck,
		RecipientID: cmd.UserID,
		TicketID:    t.ID(),
		Subject:     t.Subject(),
	})
	if err != nil {
		uc.logger.Errorw("failed to deliver ticket acknowledgment", "ticket_id", t.ID(), "error", err)
	}
	// Binding the acknowledgment token lets the user thread follow-ups by
	// replying to it.
	if ackToken != "" {
		if err := uc.correlations.Bind(ctx, ackToken, t.ID()); err != nil {
			uc.logger.Errorw("failed to bind ack correlation token", "ticket_id", t.ID(), "error", err)
		}
	}

	notified := uc.notifyAdmins(ctx, t, q)

	uc.logger.Infow("question escalated",
		"ticket_id", t.ID(), "user_id", cmd.UserID, "notified_admins", notified)

	return &HandleQuestionResult{TicketID: t.ID(), NotifiedAdmins: notified}, nil
}

func (uc *HandleQuestionUseCase) appendFollowUp(ctx context.Context, cmd HandleQuestionCommand) (*HandleQuestionResult, error) {
	uc.locks.Lock(cmd.TicketID)
	defer uc.locks.Unlock(cmd.TicketID)

	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			// Stale thread context; treat as a fresh question.
			uc.logger.Warnw("follow-up references unknown ticket, handling as fresh",
				"ticket_id", cmd.TicketID, "user_id", cmd.UserID)
			return uc.handleFresh(ctx, cmd)
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	if !t.IsActive() {
		if _, derr := uc.dispatcher.Dispatch(ctx, delivery.Intent{
			Kind:        delivery.KindClosedNotice,
			RecipientID: cmd.UserID,
			TicketID:    t.ID(),
		}); derr != nil {
			uc.logger.Errorw("failed to deliver closed notice", "ticket_id", t.ID(), "error", derr)
		}
		return &HandleQuestionResult{TicketID: t.ID(), TicketClosed: true}, nil
	}

	q, err := ticket.NewQuestion(cmd.UserID, cmd.Text, ticket.ExtractSubject(cmd.Text), cmd.Media)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	if err := t.AppendQuestion(q); err != nil {
		return nil, fmt.Errorf("failed to append question: %w", err)
	}

	if err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.ticketRepo.SaveQuestion(txCtx, q); err != nil {
			return fmt.Errorf("failed to save question: %w", err)
		}
		if err := uc.ticketRepo.Update(txCtx, t); err != nil {
			return fmt.Errorf("failed to update ticket: %w", err)
		}
		return nil
	}); err != nil {
		uc.logger.Errorw("failed to persist follow-up", "ticket_id", t.ID(), "error", err)
		return nil, err
	}

	notified := uc.notifyAdmins(ctx, t, q)

	uc.logger.Infow("follow-up appended",
		"ticket_id", t.ID(), "user_id", cmd.UserID, "notified_admins", notified)

	return &HandleQuestionResult{TicketID: t.ID(), FollowUp: true, NotifiedAdmins: notified}, nil
}

// notifyAdmins fans the question out to every active admin and binds each
// send's correlation token back to the ticket so replies can be resolved.
func (uc *HandleQuestionUseCase) notifyAdmins(ctx context.Context, t *ticket.Ticket, q *ticket.Question) int {
	admins, err := uc.userRepo.ListAdmins(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list admins", "ticket_id", t.ID(), "error", err)
		return 0
	}

	notified := 0
	for _, admin := range admins {
		token, err := uc.dispatcher.Dispatch(ctx, delivery.Intent{
			Kind:        delivery.KindAdminNotification,
			RecipientID: admin.TelegramID(),
			TicketID:    t.ID(),
			Subject:     t.Subject(),
			Text:        q.Text(),
			Media:       q.Media(),
		})
		if err != nil {
			uc.logger.Errorw("failed to notify admin",
				"ticket_id", t.ID(), "admin_id", admin.TelegramID(), "error", err)
			continue
		}
		if token != "" {
			if err := uc.correlations.Bind(ctx, token, t.ID()); err != nil {
				uc.logger.Errorw("failed to bind correlation token",
					"ticket_id", t.ID(), "admin_id", admin.TelegramID(), "error", err)
			}
		}
		notified++
	}
	return notified
}
