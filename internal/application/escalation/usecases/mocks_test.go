package usecases

import (
	"context"
	"sync"

	"helpdesk/internal/domain/delivery"
	"helpdesk/internal/domain/retrieval"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/logger"
)

type mockTicketRepository struct {
	SaveFunc                 func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc               func(ctx context.Context, t *ticket.Ticket) error
	GetByIDFunc              func(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
	SaveQuestionFunc         func(ctx context.Context, q *ticket.Question) error
	SaveAnswerFunc           func(ctx context.Context, a *ticket.Answer) error
	ListActiveFunc           func(ctx context.Context, offset, limit int) ([]*ticket.TicketSummary, error)
	ListClosedFunc           func(ctx context.Context) ([]*ticket.Ticket, error)
	GetUserTicketsFunc       func(ctx context.Context, userID int64) ([]*ticket.Ticket, error)
	GetUserClosedTicketsFunc func(ctx context.Context, userID int64) ([]*ticket.Ticket, error)
	GetHistoryFunc           func(ctx context.Context, ticketID uint) ([]ticket.HistoryEntry, error)
}

func (m *mockTicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, ticket.ErrTicketNotFound
}

func (m *mockTicketRepository) SaveQuestion(ctx context.Context, q *ticket.Question) error {
	if m.SaveQuestionFunc != nil {
		return m.SaveQuestionFunc(ctx, q)
	}
	return nil
}

func (m *mockTicketRepository) SaveAnswer(ctx context.Context, a *ticket.Answer) error {
	if m.SaveAnswerFunc != nil {
		return m.SaveAnswerFunc(ctx, a)
	}
	return nil
}

func (m *mockTicketRepository) ListActive(ctx context.Context, offset, limit int) ([]*ticket.TicketSummary, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockTicketRepository) ListClosed(ctx context.Context) ([]*ticket.Ticket, error) {
	if m.ListClosedFunc != nil {
		return m.ListClosedFunc(ctx)
	}
	return nil, nil
}

func (m *mockTicketRepository) GetUserTickets(ctx context.Context, userID int64) ([]*ticket.Ticket, error) {
	if m.GetUserTicketsFunc != nil {
		return m.GetUserTicketsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockTicketRepository) GetUserClosedTickets(ctx context.Context, userID int64) ([]*ticket.Ticket, error) {
	if m.GetUserClosedTicketsFunc != nil {
		return m.GetUserClosedTicketsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockTicketRepository) GetHistory(ctx context.Context, ticketID uint) ([]ticket.HistoryEntry, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockQuestionRepository struct {
	SaveFunc func(ctx context.Context, q *ticket.Question) error
}

func (m *mockQuestionRepository) Save(ctx context.Context, q *ticket.Question) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, q)
	}
	return nil
}

type mockUserRepository struct {
	SaveFunc            func(ctx context.Context, u *user.User) error
	UpdateFunc          func(ctx context.Context, u *user.User) error
	GetByTelegramIDFunc func(ctx context.Context, telegramID int64) (*user.User, error)
	ListFunc            func(ctx context.Context) ([]*user.User, error)
	ListAdminsFunc      func(ctx context.Context) ([]*user.User, error)
}

func (m *mockUserRepository) Save(ctx context.Context, u *user.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	if m.GetByTelegramIDFunc != nil {
		return m.GetByTelegramIDFunc(ctx, telegramID)
	}
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]*user.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) ListAdmins(ctx context.Context) ([]*user.User, error) {
	if m.ListAdminsFunc != nil {
		return m.ListAdminsFunc(ctx)
	}
	return nil, nil
}

type mockGate struct {
	AnswerFunc func(ctx context.Context, questionText string) (*retrieval.Verdict, error)
}

func (m *mockGate) Answer(ctx context.Context, questionText string) (*retrieval.Verdict, error) {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, questionText)
	}
	return &retrieval.Verdict{Confident: false}, nil
}

// mockDispatcher records every dispatched intent and is safe for concurrent
// use so racing-admin tests can inspect the fan-out afterwards.
type mockDispatcher struct {
	mu           sync.Mutex
	intents      []delivery.Intent
	DispatchFunc func(ctx context.Context, intent delivery.Intent) (string, error)
}

func (m *mockDispatcher) Dispatch(ctx context.Context, intent delivery.Intent) (string, error) {
	m.mu.Lock()
	m.intents = append(m.intents, intent)
	m.mu.Unlock()
	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, intent)
	}
	return "", nil
}

func (m *mockDispatcher) sent() []delivery.Intent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]delivery.Intent, len(m.intents))
	copy(out, m.intents)
	return out
}

func (m *mockDispatcher) sentOfKind(kind delivery.Kind) []delivery.Intent {
	var out []delivery.Intent
	for _, it := range m.sent() {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// mockCorrelationStore is an in-memory token map.
type mockCorrelationStore struct {
	mu          sync.Mutex
	tokens      map[string]uint
	BindFunc    func(ctx context.Context, token string, ticketID uint) error
	ResolveFunc func(ctx context.Context, token string) (uint, error)
}

func newMockCorrelationStore() *mockCorrelationStore {
	return &mockCorrelationStore{tokens: make(map[string]uint)}
}

func (m *mockCorrelationStore) Bind(ctx context.Context, token string, ticketID uint) error {
	if m.BindFunc != nil {
		return m.BindFunc(ctx, token, ticketID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = ticketID
	return nil
}

func (m *mockCorrelationStore) Resolve(ctx context.Context, token string) (uint, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[token]
	if !ok {
		return 0, delivery.ErrUnresolvedCorrelation
	}
	return id, nil
}

// passthroughTxManager runs the function without a real transaction.
type passthroughTxManager struct {
	RunFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)                   {}
func (m *mockLogger) Info(msg string, args ...any)                    {}
func (m *mockLogger) Warn(msg string, args ...any)                    {}
func (m *mockLogger) Error(msg string, args ...any)                   {}
func (m *mockLogger) Fatal(msg string, args ...any)                   {}
func (m *mockLogger) With(args ...any) logger.Interface               { return m }
func (m *mockLogger) Named(name string) logger.Interface              { return m }
func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Fatalw(msg string, keysAndValues ...interface{}) {}
