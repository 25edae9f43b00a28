package telegram

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	escalation "helpdesk/internal/application/escalation/usecases"
	ticketUsecases "helpdesk/internal/application/ticket/usecases"
	userUsecases "helpdesk/internal/application/user/usecases"
	"helpdesk/internal/domain/delivery"
)

type mockContacts struct {
	ExecuteFunc func(ctx context.Context, cmd userUsecases.RegisterContactCommand) (*userUsecases.RegisterContactResult, error)
	registered  []userUsecases.RegisterContactCommand
}

func (m *mockContacts) Execute(ctx context.Context, cmd userUsecases.RegisterContactCommand) (*userUsecases.RegisterContactResult, error) {
	m.registered = append(m.registered, cmd)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, cmd)
	}
	return &userUsecases.RegisterContactResult{}, nil
}

type mockQuestions struct {
	ExecuteFunc func(ctx context.Context, cmd escalation.HandleQuestionCommand) (*escalation.HandleQuestionResult, error)
	calls       []escalation.HandleQuestionCommand
}

func (m *mockQuestions) Execute(ctx context.Context, cmd escalation.HandleQuestionCommand) (*escalation.HandleQuestionResult, error) {
	m.calls = append(m.calls, cmd)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, cmd)
	}
	return &escalation.HandleQuestionResult{}, nil
}

type mockReplies struct {
	ExecuteFunc func(ctx context.Context, cmd escalation.HandleAdminReplyCommand) (*escalation.HandleAdminReplyResult, error)
	calls       []escalation.HandleAdminReplyCommand
}

func (m *mockReplies) Execute(ctx context.Context, cmd escalation.HandleAdminReplyCommand) (*escalation.HandleAdminReplyResult, error) {
	m.calls = append(m.calls, cmd)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, cmd)
	}
	return &escalation.HandleAdminReplyResult{}, nil
}

type mockCloser struct {
	ExecuteFunc func(ctx context.Context, cmd escalation.CloseTicketCommand) (*escalation.CloseTicketResult, error)
	calls       []escalation.CloseTicketCommand
}

func (m *mockCloser) Execute(ctx context.Context, cmd escalation.CloseTicketCommand) (*escalation.CloseTicketResult, error) {
	m.calls = append(m.calls, cmd)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, cmd)
	}
	return &escalation.CloseTicketResult{}, nil
}

type mockMyTickets struct {
	ExecuteFunc func(ctx context.Context, query ticketUsecases.ListUserTicketsQuery) (*ticketUsecases.ListUserTicketsResult, error)
	queries     []ticketUsecases.ListUserTicketsQuery
}

func (m *mockMyTickets) Execute(ctx context.Context, query ticketUsecases.ListUserTicketsQuery) (*ticketUsecases.ListUserTicketsResult, error) {
	m.queries = append(m.queries, query)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, query)
	}
	return &ticketUsecases.ListUserTicketsResult{}, nil
}

type mockCorrelations struct {
	bindings map[string]uint
}

func (m *mockCorrelations) Bind(ctx context.Context, token string, ticketID uint) error {
	m.bindings[token] = ticketID
	return nil
}

func (m *mockCorrelations) Resolve(ctx context.Context, token string) (uint, error) {
	id, ok := m.bindings[token]
	if !ok {
		return 0, delivery.ErrUnresolvedCorrelation
	}
	return id, nil
}

type handlerFixture struct {
	api          *fakeBotAPI
	contacts     *mockContacts
	questions    *mockQuestions
	replies      *mockReplies
	closer       *mockCloser
	myTickets    *mockMyTickets
	correlations *mockCorrelations
	handler      *PollingUpdateHandler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	api, bot := newFakeBotAPI(t)
	f := &handlerFixture{
		api:          api,
		contacts:     &mockContacts{},
		questions:    &mockQuestions{},
		replies:      &mockReplies{},
		closer:       &mockCloser{},
		myTickets:    &mockMyTickets{},
		correlations: &mockCorrelations{bindings: map[string]uint{}},
	}
	f.handler = NewPollingUpdateHandler(
		bot, f.contacts, f.questions, f.replies, f.closer, f.myTickets, f.correlations, nopLogger{})
	return f
}

func (f *handlerFixture) asAdmin() {
	f.contacts.ExecuteFunc = func(ctx context.Context, cmd userUsecases.RegisterContactCommand) (*userUsecases.RegisterContactResult, error) {
		return &userUsecases.RegisterContactResult{IsAdmin: true}, nil
	}
}

func privateMessage(senderID int64, text string) *Update {
	return &Update{
		UpdateID: 1,
		Message: &Message{
			MessageID: 10,
			From:      &User{ID: senderID, FirstName: "Lena", Username: "lena", LanguageCode: "en"},
			Chat:      &Chat{ID: senderID, Type: "private"},
			Text:      text,
		},
	}
}

func replyMessage(senderID int64, text string, repliedID int64) *Update {
	u := privateMessage(senderID, text)
	u.Message.ReplyToMessage = &Message{
		MessageID: repliedID,
		From:      &User{ID: 1, IsBot: true, FirstName: "helpdesk"},
		Chat:      &Chat{ID: senderID, Type: "private"},
	}
	return u
}

func TestHandleUpdate_PlainQuestion(t *testing.T) {
	f := newHandlerFixture(t)

	err := f.handler.HandleUpdate(context.Background(), privateMessage(100, "How do I reset my password?"))

	require.NoError(t, err)
	require.Len(t, f.questions.calls, 1)
	assert.Equal(t, int64(100), f.questions.calls[0].UserID)
	assert.Equal(t, "How do I reset my password?", f.questions.calls[0].Text)
	assert.Zero(t, f.questions.calls[0].TicketID)

	require.Len(t, f.contacts.registered, 1)
	assert.Equal(t, "lena", f.contacts.registered[0].Username)
	assert.Equal(t, "Lena", f.contacts.registered[0].FullName)
}

func TestHandleUpdate_UserReplyThreadsOntoTicket(t *testing.T) {
	f := newHandlerFixture(t)
	f.correlations.bindings[CorrelationToken(100, 55)] = 42

	err := f.handler.HandleUpdate(context.Background(), replyMessage(100, "still broken", 55))

	require.NoError(t, err)
	require.Len(t, f.questions.calls, 1)
	assert.Equal(t, uint(42), f.questions.calls[0].TicketID)
}

func TestHandleUpdate_UserReplyToStaleMessageFallsBack(t *testing.T) {
	f := newHandlerFixture(t)

	err := f.handler.HandleUpdate(context.Background(), replyMessage(100, "still broken", 55))

	require.NoError(t, err)
	require.Len(t, f.questions.calls, 1)
	assert.Zero(t, f.questions.calls[0].TicketID)
}

func TestHandleUpdate_AdminReply(t *testing.T) {
	f := newHandlerFixture(t)
	f.asAdmin()

	err := f.handler.HandleUpdate(context.Background(), replyMessage(500, "try the reset link", 77))

	require.NoError(t, err)
	require.Len(t, f.replies.calls, 1)
	assert.Equal(t, int64(500), f.replies.calls[0].AdminID)
	assert.Equal(t, CorrelationToken(500, 77), f.replies.calls[0].CorrelationToken)
	assert.Equal(t, "try the reset link", f.replies.calls[0].Text)
	assert.Empty(t, f.questions.calls)
}

func TestHandleUpdate_AdminPlainMessageGetsHint(t *testing.T) {
	f := newHandlerFixture(t)
	f.asAdmin()

	err := f.handler.HandleUpdate(context.Background(), privateMessage(500, "hello?"))

	require.NoError(t, err)
	assert.Empty(t, f.replies.calls)
	assert.Empty(t, f.questions.calls)

	sent := f.api.sentOf("sendMessage")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].body["text"].(string), "reply to the ticket notification")
}

func TestHandleUpdate_CloseViaReply(t *testing.T) {
	f := newHandlerFixture(t)
	f.correlations.bindings[CorrelationToken(100, 55)] = 42

	err := f.handler.HandleUpdate(context.Background(), replyMessage(100, "/close", 55))

	require.NoError(t, err)
	require.Len(t, f.closer.calls, 1)
	assert.Equal(t, uint(42), f.closer.calls[0].TicketID)
	assert.Equal(t, int64(100), f.closer.calls[0].InitiatorID)
	assert.False(t, f.closer.calls[0].ByAdmin)
}

func TestHandleUpdate_CloseWithExplicitID(t *testing.T) {
	f := newHandlerFixture(t)
	f.asAdmin()

	err := f.handler.HandleUpdate(context.Background(), privateMessage(500, "/close #42"))

	require.NoError(t, err)
	require.Len(t, f.closer.calls, 1)
	assert.Equal(t, uint(42), f.closer.calls[0].TicketID)
	assert.True(t, f.closer.calls[0].ByAdmin)
}

func TestHandleUpdate_CloseWithoutTarget(t *testing.T) {
	f := newHandlerFixture(t)

	err := f.handler.HandleUpdate(context.Background(), privateMessage(100, "/close"))

	require.NoError(t, err)
	assert.Empty(t, f.closer.calls)

	sent := f.api.sentOf("sendMessage")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].body["text"].(string), "Nothing to close")
}

func TestHandleUpdate_CloseAlreadyClosed(t *testing.T) {
	f := newHandlerFixture(t)
	f.correlations.bindings[CorrelationToken(100, 55)] = 42
	f.closer.ExecuteFunc = func(ctx context.Context, cmd escalation.CloseTicketCommand) (*escalation.CloseTicketResult, error) {
		return &escalation.CloseTicketResult{AlreadyClosed: true}, nil
	}

	err := f.handler.HandleUpdate(context.Background(), replyMessage(100, "/close", 55))

	require.NoError(t, err)
	sent := f.api.sentOf("sendMessage")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].body["text"].(string), "is closed")
}

func TestHandleUpdate_HelpCommand(t *testing.T) {
	f := newHandlerFixture(t)

	err := f.handler.HandleUpdate(context.Background(), privateMessage(100, "/help"))

	require.NoError(t, err)
	assert.Empty(t, f.questions.calls)
	require.Len(t, f.api.sentOf("sendMessage"), 1)
}

func TestHandleUpdate_IgnoresGroupsAndBots(t *testing.T) {
	f := newHandlerFixture(t)

	group := privateMessage(100, "question")
	group.Message.Chat.Type = "group"
	require.NoError(t, f.handler.HandleUpdate(context.Background(), group))

	bot := privateMessage(100, "question")
	bot.Message.From.IsBot = true
	require.NoError(t, f.handler.HandleUpdate(context.Background(), bot))

	assert.Empty(t, f.contacts.registered)
	assert.Empty(t, f.questions.calls)
}

func TestHandleUpdate_DocumentAttachment(t *testing.T) {
	f := newHandlerFixture(t)

	u := privateMessage(100, "")
	u.Message.Caption = "see the attached log"
	u.Message.Document = &Document{FileID: "doc-1", FileName: "app.log"}

	err := f.handler.HandleUpdate(context.Background(), u)

	require.NoError(t, err)
	require.Len(t, f.questions.calls, 1)
	assert.Equal(t, "see the attached log", f.questions.calls[0].Text)

	media := f.questions.calls[0].Media
	require.Len(t, media, 1)
	assert.Contains(t, media[0].FileURL(), "documents/report.pdf")
	assert.Equal(t, "document", media[0].FileType())
	assert.Equal(t, "app.log", media[0].Filename())
}

func TestHandleUpdate_PhotoAttachment(t *testing.T) {
	f := newHandlerFixture(t)

	u := privateMessage(100, "")
	u.Message.Caption = "here is a screenshot"
	u.Message.Photo = []PhotoSize{
		{FileID: "ph-small", Width: 90, Height: 90},
		{FileID: "ph-1", Width: 1280, Height: 720},
	}

	err := f.handler.HandleUpdate(context.Background(), u)

	require.NoError(t, err)
	require.Len(t, f.questions.calls, 1)
	assert.Equal(t, "here is a screenshot", f.questions.calls[0].Text)

	media := f.questions.calls[0].Media
	require.Len(t, media, 1)
	assert.Equal(t, "photo", media[0].FileType())
	assert.Equal(t, "photo_ph-1", media[0].Filename(), "largest variant, synthesized name")
	assert.NotEmpty(t, media[0].FileURL())
}

func TestHandleUpdate_DocumentWithoutName(t *testing.T) {
	f := newHandlerFixture(t)

	u := privateMessage(100, "")
	u.Message.Caption = "exported data"
	u.Message.Document = &Document{FileID: "doc-7"}

	err := f.handler.HandleUpdate(context.Background(), u)

	require.NoError(t, err)
	require.Len(t, f.questions.calls, 1)

	media := f.questions.calls[0].Media
	require.Len(t, media, 1)
	assert.Equal(t, "document", media[0].FileType())
	assert.Equal(t, "document_doc-7", media[0].Filename())
}

func TestHandleUpdate_MyTickets(t *testing.T) {
	f := newHandlerFixture(t)
	f.myTickets.ExecuteFunc = func(ctx context.Context, query ticketUsecases.ListUserTicketsQuery) (*ticketUsecases.ListUserTicketsResult, error) {
		return &ticketUsecases.ListUserTicketsResult{Tickets: []ticketUsecases.TicketListItem{
			{TicketID: 42, UserID: 100, Subject: "printer <broken>", Status: "open"},
			{TicketID: 7, UserID: 100, Subject: "refund", Status: "closed_by_admin"},
		}}, nil
	}

	err := f.handler.HandleUpdate(context.Background(), privateMessage(100, "/tickets"))

	require.NoError(t, err)
	require.Len(t, f.myTickets.queries, 1)
	assert.Equal(t, int64(100), f.myTickets.queries[0].UserID)
	assert.Empty(t, f.questions.calls)

	sent := f.api.sentOf("sendMessage")
	require.Len(t, sent, 1)
	text := sent[0].body["text"].(string)
	assert.Contains(t, text, "#42")
	assert.Contains(t, text, "printer &lt;broken&gt;")
	assert.NotContains(t, text, "<broken>")
	assert.Contains(t, text, "#7")
	assert.Contains(t, text, "closed by support")
}

func TestHandleUpdate_MyTicketsEmpty(t *testing.T) {
	f := newHandlerFixture(t)

	err := f.handler.HandleUpdate(context.Background(), privateMessage(100, "/tickets"))

	require.NoError(t, err)
	sent := f.api.sentOf("sendMessage")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].body["text"].(string), "no tickets yet")
}
