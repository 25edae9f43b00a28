package i18n

import "fmt"

// Outbound delivery messages

// MsgAutoAnswer wraps a knowledge-base answer sent without escalation.
// answerHTML must already be sanitized.
func MsgAutoAnswer(lang Lang, answerHTML string) string {
	if lang == EN {
		return "💡 <b>Answer</b>\n\n" + answerHTML + "\n\n" +
			"<i>If this does not help, just send your question again in other words and a support agent will take over.</i>"
	}
	return "💡 <b>Ответ</b>\n\n" + answerHTML + "\n\n" +
		"<i>Если ответ не помог, переформулируйте вопрос, и им займётся оператор поддержки.</i>"
}

// MsgTicketAck confirms to the user that a ticket was opened.
func MsgTicketAck(lang Lang, ticketID uint, subjectHTML string) string {
	if lang == EN {
		return fmt.Sprintf("📨 <b>Ticket #%d opened</b>\n\n"+
			"<b>Subject:</b> %s\n\n"+
			"A support agent will reply here. Reply to this message to add details.", ticketID, subjectHTML)
	}
	return fmt.Sprintf("📨 <b>Обращение #%d создано</b>\n\n"+
		"<b>Тема:</b> %s\n\n"+
		"Оператор ответит вам в этом чате. Ответьте на это сообщение, чтобы дополнить обращение.", ticketID, subjectHTML)
}

// MsgAdminNotification renders a new or follow-up question for an admin.
// Replying to this message routes the reply back to the ticket.
func MsgAdminNotification(lang Lang, ticketID uint, subjectHTML, questionHTML string) string {
	if lang == EN {
		return fmt.Sprintf("🆕 <b>Ticket #%d</b>\n\n"+
			"<b>Subject:</b> %s\n\n"+
			"%s\n\n"+
			"<i>Reply to this message to answer the user.</i>", ticketID, subjectHTML, questionHTML)
	}
	return fmt.Sprintf("🆕 <b>Обращение #%d</b>\n\n"+
		"<b>Тема:</b> %s\n\n"+
		"%s\n\n"+
		"<i>Ответьте на это сообщение, чтобы ответить пользователю.</i>", ticketID, subjectHTML, questionHTML)
}

// MsgAnswerToUser renders an admin answer for the user.
func MsgAnswerToUser(lang Lang, ticketID uint, answerHTML string) string {
	if lang == EN {
		return fmt.Sprintf("✉️ <b>Reply to ticket #%d</b>\n\n%s\n\n"+
			"<i>Reply to this message if you have further questions, or send /close to close the ticket.</i>", ticketID, answerHTML)
	}
	return fmt.Sprintf("✉️ <b>Ответ по обращению #%d</b>\n\n%s\n\n"+
		"<i>Ответьте на это сообщение, если остались вопросы, или отправьте /close, чтобы закрыть обращение.</i>", ticketID, answerHTML)
}

// MsgTicketClosedNotice tells the sender the target ticket is already closed.
func MsgTicketClosedNotice(lang Lang, ticketID uint) string {
	if lang == EN {
		return fmt.Sprintf("🔒 <b>Ticket #%d is closed</b>\n\n"+
			"The message was not added. Send a new question to open a fresh ticket.", ticketID)
	}
	return fmt.Sprintf("🔒 <b>Обращение #%d закрыто</b>\n\n"+
		"Сообщение не добавлено. Отправьте новый вопрос, чтобы создать новое обращение.", ticketID)
}

// MsgReplyUnmatched is shown when a reply cannot be matched to any ticket.
func MsgReplyUnmatched(lang Lang) string {
	if lang == EN {
		return "⚠️ <b>Could not match your reply</b>\n\n" +
			"The message you replied to is no longer linked to a ticket.\n" +
			"Reply to a newer notification instead."
	}
	return "⚠️ <b>Не удалось сопоставить ответ</b>\n\n" +
		"Сообщение, на которое вы ответили, больше не привязано к обращению.\n" +
		"Ответьте на более свежее уведомление."
}

// MsgCloseConfirmation confirms that a ticket was closed.
func MsgCloseConfirmation(lang Lang, ticketID uint) string {
	if lang == EN {
		return fmt.Sprintf("✅ <b>Ticket #%d closed</b>\n\n"+
			"Thank you for contacting support.", ticketID)
	}
	return fmt.Sprintf("✅ <b>Обращение #%d закрыто</b>\n\n"+
		"Спасибо за обращение в поддержку.", ticketID)
}

// Inbound handler messages

// MsgHelp is shown on /start and /help for regular users.
func MsgHelp(lang Lang) string {
	if lang == EN {
		return "👋 <b>Support</b>\n\n" +
			"Just send your question as a regular message.\n" +
			"If the knowledge base cannot answer, a support agent will.\n\n" +
			"<b>Commands:</b>\n" +
			"/tickets — list your tickets\n" +
			"/close — close your ticket (send as a reply to a ticket message)\n" +
			"/help — show this help"
	}
	return "👋 <b>Поддержка</b>\n\n" +
		"Просто отправьте свой вопрос обычным сообщением.\n" +
		"Если база знаний не найдёт ответ, ответит оператор.\n\n" +
		"<b>Команды:</b>\n" +
		"/tickets — показать ваши обращения\n" +
		"/close — закрыть обращение (отправьте ответом на сообщение обращения)\n" +
		"/help — показать эту справку"
}

// MsgAdminHelp extends the help text for admins.
func MsgAdminHelp(lang Lang) string {
	if lang == EN {
		return MsgHelp(EN) + "\n\n" +
			"<b>For admins:</b>\n" +
			"Reply to a ticket notification to answer the user.\n" +
			"Send /close as a reply to a notification to close that ticket."
	}
	return MsgHelp(RU) + "\n\n" +
		"<b>Для операторов:</b>\n" +
		"Ответьте на уведомление об обращении, чтобы ответить пользователю.\n" +
		"Отправьте /close ответом на уведомление, чтобы закрыть обращение."
}

// MsgMyTicketsHeader titles the /tickets listing.
func MsgMyTicketsHeader(lang Lang) string {
	if lang == EN {
		return "🗂 <b>Your tickets</b>"
	}
	return "🗂 <b>Ваши обращения</b>"
}

// MsgTicketLine renders one row of the /tickets listing. subjectHTML must
// already be escaped.
func MsgTicketLine(lang Lang, ticketID uint, subjectHTML, status string) string {
	return fmt.Sprintf("#%d · %s (%s)", ticketID, subjectHTML, statusLabel(lang, status))
}

func statusLabel(lang Lang, status string) string {
	switch status {
	case "open":
		if lang == EN {
			return "open"
		}
		return "открыто"
	case "closed_by_user":
		if lang == EN {
			return "closed by you"
		}
		return "закрыто вами"
	case "closed_by_admin":
		if lang == EN {
			return "closed by support"
		}
		return "закрыто поддержкой"
	}
	return status
}

// MsgNoTickets is shown when the /tickets listing is empty.
func MsgNoTickets(lang Lang) string {
	if lang == EN {
		return "🗂 You have no tickets yet. Just send your question to open one."
	}
	return "🗂 У вас пока нет обращений. Просто отправьте свой вопрос, чтобы создать обращение."
}

// MsgCloseUsage is shown when /close cannot be tied to a ticket.
func MsgCloseUsage(lang Lang) string {
	if lang == EN {
		return "⚠️ <b>Nothing to close</b>\n\n" +
			"Send /close as a reply to a ticket message, or /close &lt;ticket number&gt;."
	}
	return "⚠️ <b>Нечего закрывать</b>\n\n" +
		"Отправьте /close ответом на сообщение обращения или /close &lt;номер обращения&gt;."
}

// MsgAdminReplyHint is shown when an admin sends a plain message.
func MsgAdminReplyHint(lang Lang) string {
	if lang == EN {
		return "ℹ️ To answer a user, reply to the ticket notification message."
	}
	return "ℹ️ Чтобы ответить пользователю, ответьте на сообщение с уведомлением об обращении."
}

// MsgOperationFailed is a generic failure notice.
func MsgOperationFailed(lang Lang) string {
	if lang == EN {
		return "❌ <b>Something went wrong</b>\n\n" +
			"The operation failed, please try again later."
	}
	return "❌ <b>Что-то пошло не так</b>\n\n" +
		"Операция не выполнена, попробуйте позже."
}

// MsgPermissionDenied is shown when a user acts on a ticket that is not theirs.
func MsgPermissionDenied(lang Lang) string {
	if lang == EN {
		return "🚫 You cannot perform this action on someone else's ticket."
	}
	return "🚫 Вы не можете выполнить это действие с чужим обращением."
}
