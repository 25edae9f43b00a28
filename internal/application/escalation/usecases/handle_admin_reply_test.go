package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/domain/delivery"
	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/keymutex"
)

func adminLookup(t *testing.T) func(ctx context.Context, id int64) (*user.User, error) {
	t.Helper()
	return func(ctx context.Context, id int64) (*user.User, error) {
		return user.ReconstructUser(id, "admin", "Admin", true)
	}
}

func openTicketForUser(t *testing.T, ticketID uint, userID int64) *ticket.Ticket {
	t.Helper()
	q, err := ticket.NewQuestion(userID, "why was I charged twice?", "why was I charged twice?", nil)
	require.NoError(t, err)
	tk, err := ticket.NewTicket(userID, q)
	require.NoError(t, err)
	require.NoError(t, tk.SetID(ticketID))
	return tk
}

func TestHandleAdminReplyUseCase_Execute_Success(t *testing.T) {
	tk := openTicketForUser(t, 42, 100)

	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return tk, nil
		},
		SaveAnswerFunc: func(ctx context.Context, a *ticket.Answer) error {
			return a.SetID(300)
		},
	}
	userRepo := &mockUserRepository{GetByTelegramIDFunc: adminLookup(t)}
	dispatcher := &mockDispatcher{}
	correlations := newMockCorrelationStore()
	require.NoError(t, correlations.Bind(context.Background(), "tok-a", 42))

	uc := NewHandleAdminReplyUseCase(
		ticketRepo, userRepo, dispatcher, correlations,
		keymutex.New(), &passthroughTxManager{}, &mockLogger{},
	)

	result, err := uc.Execute(context.Background(), HandleAdminReplyCommand{
		AdminID:          500,
		CorrelationToken: "tok-a",
		Text:             "Refund issued",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(300), result.AnswerID)
	assert.Equal(t, uint(42), result.TicketID)
	assert.True(t, result.UserNotified)

	require.Len(t, tk.Answers(), 1)
	assert.Equal(t, int64(500), tk.Answers()[0].AdminID())

	toUser := dispatcher.sentOfKind(delivery.KindAnswerToUser)
	require.Len(t, toUser, 1)
	assert.Equal(t, int64(100), toUser[0].RecipientID)
	assert.Equal(t, "Refund issued", toUser[0].Text)
}

func TestHandleAdminReplyUseCase_Execute_UnresolvedToken(t *testing.T) {
	ticketRepo := &mockTicketRepository{}
	userRepo := &mockUserRepository{GetByTelegramIDFunc: adminLookup(t)}
	dispatcher := &mockDispatcher{}

	uc := NewHandleAdminReplyUseCase(
		ticketRepo, userRepo, dispatcher, newMockCorrelationStore(),
		keymutex.New(), &passthroughTxManager{}, &mockLogger{},
	)

	_, err := uc.Execute(context.Background(), HandleAdminReplyCommand{
		AdminID:          500,
		CorrelationToken: "unknown-token",
		Text:             "hello?",
	})

	assert.ErrorIs(t, err, delivery.ErrUnresolvedCorrelation)
	require.Len(t, dispatcher.sentOfKind(delivery.KindClosedNotice), 1,
		"the admin must be told instead of the reply being dropped")
}

func TestHandleAdminReplyUseCase_Execute_ClosedTicket(t *testing.T) {
	now := time.Now().UTC()
	closed, err := ticket.ReconstructTicket(42, 100, vo.StatusClosedByUser, now, now, &now, nil, nil)
	require.NoError(t, err)

	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return closed, nil
		},
		SaveAnswerFunc: func(ctx context.Context, a *ticket.Answer) error {
			t.Fatal("answer must never be appended to a closed ticket")
			return nil
		},
	}
	userRepo := &mockUserRepository{GetByTelegramIDFunc: adminLookup(t)}
	dispatcher := &mockDispatcher{}
	correlations := newMockCorrelationStore()
	require.NoError(t, correlations.Bind(context.Background(), "tok-a", 42))

	uc := NewHandleAdminReplyUseCase(
		ticketRepo, userRepo, dispatcher, correlations,
		keymutex.New(), &passthroughTxManager{}, &mockLogger{},
	)

	result, err := uc.Execute(context.Background(), HandleAdminReplyCommand{
		AdminID:          500,
		CorrelationToken: "tok-a",
		Text:             "too late",
	})

	assert.ErrorIs(t, err, ticket.ErrTicketClosed)
	require.NotNil(t, result)
	assert.True(t, result.TicketClosed)

	notices := dispatcher.sentOfKind(delivery.KindClosedNotice)
	require.Len(t, notices, 1)
	assert.Equal(t, int64(500), notices[0].RecipientID)
	assert.Empty(t, dispatcher.sentOfKind(delivery.KindAnswerToUser))
}

func TestHandleAdminReplyUseCase_Execute_NonAdminRejected(t *testing.T) {
	userRepo := &mockUserRepository{
		GetByTelegramIDFunc: func(ctx context.Context, id int64) (*user.User, error) {
			return user.ReconstructUser(id, "someone", "Someone", false)
		},
	}
	resolveCalled := false
	correlations := newMockCorrelationStore()
	correlations.ResolveFunc = func(ctx context.Context, token string) (uint, error) {
		resolveCalled = true
		return 0, delivery.ErrUnresolvedCorrelation
	}

	uc := NewHandleAdminReplyUseCase(
		&mockTicketRepository{}, userRepo, &mockDispatcher{}, correlations,
		keymutex.New(), &passthroughTxManager{}, &mockLogger{},
	)

	_, err := uc.Execute(context.Background(), HandleAdminReplyCommand{
		AdminID:          900,
		CorrelationToken: "tok-a",
		Text:             "not an admin",
	})

	assert.Error(t, err)
	assert.False(t, resolveCalled)
}

// Two admins replying within milliseconds of each other: both answers land,
// serialized per ticket, with strictly advancing last_updated.
func TestHandleAdminReplyUseCase_Execute_ConcurrentReplies(t *testing.T) {
	tk := openTicketForUser(t, 42, 100)

	var commitMu sync.Mutex
	var commitOrder []int64
	nextID := uint(0)

	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return tk, nil
		},
		SaveAnswerFunc: func(ctx context.Context, a *ticket.Answer) error {
			commitMu.Lock()
			defer commitMu.Unlock()
			nextID++
			commitOrder = append(commitOrder, a.AdminID())
			return a.SetID(nextID)
		},
	}
	userRepo := &mockUserRepository{GetByTelegramIDFunc: adminLookup(t)}
	dispatcher := &mockDispatcher{}
	correlations := newMockCorrelationStore()
	require.NoError(t, correlations.Bind(context.Background(), "tok-a", 42))
	require.NoError(t, correlations.Bind(context.Background(), "tok-b", 42))

	uc := NewHandleAdminReplyUseCase(
		ticketRepo, userRepo, dispatcher, correlations,
		keymutex.New(), &passthroughTxManager{}, &mockLogger{},
	)

	var wg sync.WaitGroup
	for _, reply := range []HandleAdminReplyCommand{
		{AdminID: 500, CorrelationToken: "tok-a", Text: "first admin"},
		{AdminID: 501, CorrelationToken: "tok-b", Text: "second admin"},
	} {
		wg.Add(1)
		go func(cmd HandleAdminReplyCommand) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), cmd)
			assert.NoError(t, err)
		}(reply)
	}
	wg.Wait()

	answers := tk.Answers()
	require.Len(t, answers, 2)
	assert.True(t, answers[1].CreatedAt().After(answers[0].CreatedAt()) ||
		answers[1].CreatedAt().Equal(answers[0].CreatedAt()))

	// Append order on the aggregate matches store commit order.
	assert.Equal(t, commitOrder[0], answers[0].AdminID())
	assert.Equal(t, commitOrder[1], answers[1].AdminID())

	// Both user notifications went out, one per answer.
	assert.Len(t, dispatcher.sentOfKind(delivery.KindAnswerToUser), 2)
}
