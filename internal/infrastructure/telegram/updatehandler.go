package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	escalation "helpdesk/internal/application/escalation/usecases"
	ticketUsecases "helpdesk/internal/application/ticket/usecases"
	userUsecases "helpdesk/internal/application/user/usecases"
	"helpdesk/internal/domain/delivery"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/infrastructure/telegram/i18n"
	"helpdesk/internal/shared/logger"
)

// ContactRegistrar upserts a user before their message is processed.
type ContactRegistrar interface {
	Execute(ctx context.Context, cmd userUsecases.RegisterContactCommand) (*userUsecases.RegisterContactResult, error)
}

// PollingUpdateHandler routes inbound Telegram updates to the engine.
// Every message registers the sender first; what happens next depends on
// whether the sender is an admin and whether the message replies to one of
// the bot's own messages.
type PollingUpdateHandler struct {
	bot          *BotService
	contacts     ContactRegistrar
	questions    escalation.HandleQuestionExecutor
	replies      escalation.HandleAdminReplyExecutor
	closer       escalation.CloseTicketExecutor
	myTickets    ticketUsecases.ListUserTicketsExecutor
	correlations delivery.CorrelationStore
	logger       logger.Interface
}

func NewPollingUpdateHandler(
	bot *BotService,
	contacts ContactRegistrar,
	questions escalation.HandleQuestionExecutor,
	replies escalation.HandleAdminReplyExecutor,
	closer escalation.CloseTicketExecutor,
	myTickets ticketUsecases.ListUserTicketsExecutor,
	correlations delivery.CorrelationStore,
	logger logger.Interface,
) *PollingUpdateHandler {
	return &PollingUpdateHandler{
		bot:          bot,
		contacts:     contacts,
		questions:    questions,
		replies:      replies,
		closer:       closer,
		myTickets:    myTickets,
		correlations: correlations,
		logger:       logger,
	}
}

// HandleUpdate processes a single Telegram update.
func (h *PollingUpdateHandler) HandleUpdate(ctx context.Context, update *Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return nil
	}
	if msg.Chat == nil || msg.Chat.Type != "private" {
		// Group chatter is not support traffic.
		return nil
	}

	senderID := msg.From.ID
	lang := i18n.DetectLang(msg.From.LanguageCode)

	reg, err := h.contacts.Execute(ctx, userUsecases.RegisterContactCommand{
		TelegramID: senderID,
		Username:   msg.From.Username,
		FullName:   fullName(msg.From),
	})
	if err != nil {
		return fmt.Errorf("failed to register contact: %w", err)
	}
	isAdmin := reg.IsAdmin

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		text = strings.TrimSpace(msg.Caption)
	}

	switch {
	case text == "/start" || text == "/help":
		return h.sendHelp(senderID, isAdmin, lang)
	case text == "/close" || strings.HasPrefix(text, "/close "):
		return h.handleClose(ctx, msg, text, isAdmin, lang)
	case text == "/tickets":
		return h.handleMyTickets(ctx, msg, lang)
	case strings.HasPrefix(text, "/"):
		return h.sendHelp(senderID, isAdmin, lang)
	case isAdmin:
		return h.handleAdminMessage(ctx, msg, text, lang)
	default:
		return h.handleUserMessage(ctx, msg, text, lang)
	}
}

// handleUserMessage turns a user message into a question. A reply to one of
// the bot's ticket messages threads the question onto that ticket.
func (h *PollingUpdateHandler) handleUserMessage(ctx context.Context, msg *Message, text string, lang i18n.Lang) error {
	var ticketID uint
	if token, ok := h.replyToken(msg); ok {
		id, err := h.correlations.Resolve(ctx, token)
		switch {
		case err == nil:
			ticketID = id
		case errors.Is(err, delivery.ErrUnresolvedCorrelation):
			// Stale reply target; fall through and treat as a fresh question.
		default:
			h.logger.Errorw("failed to resolve reply token", "token", token, "error", err)
		}
	}

	_ = h.bot.SendChatAction(msg.From.ID, "typing")

	media := h.collectMedia(msg, false)
	if text == "" && len(media) == 0 {
		return nil
	}

	if _, err := h.questions.Execute(ctx, escalation.HandleQuestionCommand{
		UserID:   msg.From.ID,
		Text:     text,
		Media:    media,
		TicketID: ticketID,
	}); err != nil {
		h.logger.Errorw("failed to handle question", "user_id", msg.From.ID, "error", err)
		_, serr := h.bot.SendMessage(msg.From.ID, i18n.MsgOperationFailed(lang))
		return errors.Join(err, serr)
	}
	return nil
}

// handleAdminMessage expects a reply to a ticket notification; anything else
// gets a usage hint.
func (h *PollingUpdateHandler) handleAdminMessage(ctx context.Context, msg *Message, text string, lang i18n.Lang) error {
	token, ok := h.replyToken(msg)
	if !ok {
		_, err := h.bot.SendMessage(msg.From.ID, i18n.MsgAdminReplyHint(lang))
		return err
	}

	media := h.collectMedia(msg, true)
	if text == "" && len(media) == 0 {
		return nil
	}

	_, err := h.replies.Execute(ctx, escalation.HandleAdminReplyCommand{
		AdminID:          msg.From.ID,
		CorrelationToken: token,
		Text:             text,
		Media:            media,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, delivery.ErrUnresolvedCorrelation), errors.Is(err, ticket.ErrTicketClosed):
		// The use case already sent the sender a notice.
		return nil
	default:
		h.logger.Errorw("failed to handle admin reply", "admin_id", msg.From.ID, "error", err)
		_, serr := h.bot.SendMessage(msg.From.ID, i18n.MsgOperationFailed(lang))
		return errors.Join(err, serr)
	}
}

// handleClose resolves the target ticket from an explicit argument or from
// the replied-to message.
func (h *PollingUpdateHandler) handleClose(ctx context.Context, msg *Message, text string, isAdmin bool, lang i18n.Lang) error {
	ticketID := h.closeTarget(ctx, msg, text)
	if ticketID == 0 {
		_, err := h.bot.SendMessage(msg.From.ID, i18n.MsgCloseUsage(lang))
		return err
	}

	result, err := h.closer.Execute(ctx, escalation.CloseTicketCommand{
		TicketID:    ticketID,
		InitiatorID: msg.From.ID,
		ByAdmin:     isAdmin,
	})
	switch {
	case errors.Is(err, ticket.ErrNotTicketOwner):
		_, serr := h.bot.SendMessage(msg.From.ID, i18n.MsgPermissionDenied(lang))
		return serr
	case errors.Is(err, ticket.ErrTicketNotFound):
		_, serr := h.bot.SendMessage(msg.From.ID, i18n.MsgCloseUsage(lang))
		return serr
	case err != nil:
		h.logger.Errorw("failed to close ticket", "ticket_id", ticketID, "error", err)
		_, serr := h.bot.SendMessage(msg.From.ID, i18n.MsgOperationFailed(lang))
		return errors.Join(err, serr)
	}

	if result.AlreadyClosed {
		_, err := h.bot.SendMessage(msg.From.ID, i18n.MsgTicketClosedNotice(lang, ticketID))
		return err
	}
	// Confirmations go out through the dispatcher.
	return nil
}

// handleMyTickets sends the sender a listing of all their tickets.
func (h *PollingUpdateHandler) handleMyTickets(ctx context.Context, msg *Message, lang i18n.Lang) error {
	result, err := h.myTickets.Execute(ctx, ticketUsecases.ListUserTicketsQuery{UserID: msg.From.ID})
	if err != nil {
		h.logger.Errorw("failed to list user tickets", "user_id", msg.From.ID, "error", err)
		_, serr := h.bot.SendMessage(msg.From.ID, i18n.MsgOperationFailed(lang))
		return errors.Join(err, serr)
	}

	if len(result.Tickets) == 0 {
		_, err := h.bot.SendMessage(msg.From.ID, i18n.MsgNoTickets(lang))
		return err
	}

	lines := make([]string, 0, len(result.Tickets)+1)
	lines = append(lines, i18n.MsgMyTicketsHeader(lang))
	for _, item := range result.Tickets {
		lines = append(lines, i18n.MsgTicketLine(lang, item.TicketID, EscapeHTML(item.Subject), item.Status))
	}
	_, err = h.bot.SendMessage(msg.From.ID, strings.Join(lines, "\n"))
	return err
}

func (h *PollingUpdateHandler) closeTarget(ctx context.Context, msg *Message, text string) uint {
	if arg := strings.TrimSpace(strings.TrimPrefix(text, "/close")); arg != "" {
		if id, err := strconv.ParseUint(strings.TrimPrefix(arg, "#"), 10, 64); err == nil {
			return uint(id)
		}
		return 0
	}

	token, ok := h.replyToken(msg)
	if !ok {
		return 0
	}
	id, err := h.correlations.Resolve(ctx, token)
	if err != nil {
		if !errors.Is(err, delivery.ErrUnresolvedCorrelation) {
			h.logger.Errorw("failed to resolve close target", "token", token, "error", err)
		}
		return 0
	}
	return id
}

// replyToken rebuilds the correlation token for the bot message the sender
// replied to.
func (h *PollingUpdateHandler) replyToken(msg *Message) (string, bool) {
	reply := msg.ReplyToMessage
	if reply == nil || reply.From == nil || !reply.From.IsBot {
		return "", false
	}
	return CorrelationToken(msg.Chat.ID, reply.MessageID), true
}

// collectMedia resolves message attachments to downloadable references.
// Failures drop the attachment but never the message.
func (h *PollingUpdateHandler) collectMedia(msg *Message, forAnswer bool) []*ticket.Media {
	var media []*ticket.Media

	appendMedia := func(fileID, fileType, filename string) {
		url, err := h.bot.GetFileURL(fileID)
		if err != nil {
			h.logger.Errorw("failed to resolve attachment", "file_type", fileType, "error", err)
			return
		}
		var m *ticket.Media
		if forAnswer {
			m, err = ticket.NewAnswerMedia(url, fileType, filename)
		} else {
			m, err = ticket.NewQuestionMedia(url, fileType, filename)
		}
		if err != nil {
			h.logger.Errorw("failed to build attachment", "file_type", fileType, "error", err)
			return
		}
		media = append(media, m)
	}

	if len(msg.Photo) > 0 {
		// Variants are ordered by size; keep only the largest. Photos carry no
		// filename, so one is synthesized from the file ID.
		largest := msg.Photo[len(msg.Photo)-1]
		appendMedia(largest.FileID, "photo", "photo_"+largest.FileID)
	}
	if msg.Document != nil {
		name := msg.Document.FileName
		if name == "" {
			name = "document_" + msg.Document.FileID
		}
		appendMedia(msg.Document.FileID, "document", name)
	}
	return media
}

func (h *PollingUpdateHandler) sendHelp(chatID int64, isAdmin bool, lang i18n.Lang) error {
	text := i18n.MsgHelp(lang)
	if isAdmin {
		text = i18n.MsgAdminHelp(lang)
	}
	_, err := h.bot.SendMessage(chatID, text)
	return err
}

func fullName(u *User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
