package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"helpdesk/internal/domain/delivery"
	"helpdesk/internal/infrastructure/telegram/i18n"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/services/markdown"
)

// CorrelationToken builds the opaque token for a sent message. The inbound
// handler rebuilds the same token from a reply's reply_to_message so the two
// sides meet in the correlation store.
func CorrelationToken(chatID, messageID int64) string {
	return fmt.Sprintf("msg:%d:%d", chatID, messageID)
}

// parseCorrelationToken is the inverse of CorrelationToken.
func parseCorrelationToken(token string) (chatID, messageID int64, ok bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "msg" {
		return 0, 0, false
	}
	chatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	messageID, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return chatID, messageID, true
}

// DeliveryGateway renders delivery intents into Bot API messages. Formatting
// and language live here; the use cases only decide what to say.
type DeliveryGateway struct {
	bot      *BotService
	markdown markdown.Service
	lang     i18n.Lang
	logger   logger.Interface
}

func NewDeliveryGateway(bot *BotService, md markdown.Service, lang i18n.Lang, logger logger.Interface) *DeliveryGateway {
	return &DeliveryGateway{
		bot:      bot,
		markdown: md,
		lang:     lang,
		logger:   logger,
	}
}

// Send renders and sends one intent. The returned token identifies the sent
// message; callers bind it when replies to the message should resolve back
// to a ticket.
func (g *DeliveryGateway) Send(ctx context.Context, intent delivery.Intent) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := g.render(intent)
	if err != nil {
		return "", err
	}

	messageID, err := g.bot.SendMessage(intent.RecipientID, text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", delivery.ErrSendFailed, err)
	}

	g.forwardMedia(intent)

	return CorrelationToken(intent.RecipientID, messageID), nil
}

func (g *DeliveryGateway) render(intent delivery.Intent) (string, error) {
	switch intent.Kind {
	case delivery.KindAutoAnswer:
		body, err := g.richText(intent.Text)
		if err != nil {
			return "", err
		}
		return i18n.MsgAutoAnswer(g.lang, body), nil
	case delivery.KindTicketAck:
		return i18n.MsgTicketAck(g.lang, intent.TicketID, EscapeHTML(intent.Subject)), nil
	case delivery.KindAdminNotification:
		return i18n.MsgAdminNotification(g.lang, intent.TicketID,
			EscapeHTML(intent.Subject), EscapeHTML(intent.Text)), nil
	case delivery.KindAnswerToUser:
		body, err := g.richText(intent.Text)
		if err != nil {
			return "", err
		}
		return i18n.MsgAnswerToUser(g.lang, intent.TicketID, body), nil
	case delivery.KindClosedNotice:
		if intent.TicketID == 0 {
			return i18n.MsgReplyUnmatched(g.lang), nil
		}
		return i18n.MsgTicketClosedNotice(g.lang, intent.TicketID), nil
	case delivery.KindCloseConfirmation:
		return i18n.MsgCloseConfirmation(g.lang, intent.TicketID), nil
	default:
		return "", fmt.Errorf("unknown intent kind %q", intent.Kind)
	}
}

// richText renders authored text (knowledge-base answers, admin replies)
// from markdown into the HTML subset Telegram accepts. On render failure the
// escaped plain text is delivered rather than nothing.
func (g *DeliveryGateway) richText(text string) (string, error) {
	html, err := g.markdown.ToHTML(text)
	if err != nil {
		g.logger.Warnw("failed to render markdown, sending plain", "error", err)
		return EscapeHTML(text), nil
	}
	return html, nil
}

// forwardMedia re-sends attachments after the formatted message. Attachment
// failures are logged but never fail the send; the text already went out.
func (g *DeliveryGateway) forwardMedia(intent delivery.Intent) {
	for _, m := range intent.Media {
		var err error
		switch m.FileType() {
		case "photo":
			_, err = g.bot.SendPhoto(intent.RecipientID, m.FileURL(), "")
		default:
			_, err = g.bot.SendDocument(intent.RecipientID, m.FileURL(), "")
		}
		if err != nil {
			g.logger.Errorw("failed to forward attachment",
				"recipient_id", intent.RecipientID,
				"ticket_id", intent.TicketID,
				"file_type", m.FileType(),
				"error", err)
		}
	}
}
