package usecases

import (
	"context"
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

func newCloseTicketUseCase(ticketRepo *mockTicketRepository, dispatcher *mockDispatcher) *CloseTicketUseCase {
	userRepo := &mockUserRepository{
		ListAdminsFunc: func(ctx context.Context) ([]*user.User, error) {
			a, _ := user.ReconstructUser(500, "admin", "Admin", true)
			return []*user.User{a}, nil
		},
	}
	return NewCloseTicketUseCase(
		ticketRepo, userRepo, dispatcher,
		keymutex.New(), &passthroughTxManager{}, &mockLogger{},
	)
}

func TestCloseTicketUseCase_Execute_ByUser(t *testing.T) {
	tk := openTicketForUser(t, 42, 100)

	updated := false
	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return tk, nil
		},
		UpdateFunc: func(ctx context.Context, tt *ticket.Ticket) error {
			updated = true
			return nil
		},
	}
	dispatcher := &mockDispatcher{}
	uc := newCloseTicketUseCase(ticketRepo, dispatcher)

	result, err := uc.Execute(context.Background(), CloseTicketCommand{
		TicketID:    42,
		InitiatorID: 100,
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusClosedByUser, result.Status)
	assert.False(t, result.AlreadyClosed)
	assert.True(t, updated)
	assert.False(t, tk.IsActive())
	require.NotNil(t, tk.CompletionTime())

	// Confirmation to the owner and to the admin pool.
	confirmations := dispatcher.sentOfKind(delivery.KindCloseConfirmation)
	require.Len(t, confirmations, 2)
	assert.Equal(t, int64(100), confirmations[0].RecipientID)
	assert.Equal(t, int64(500), confirmations[1].RecipientID)
}

func TestCloseTicketUseCase_Execute_ByAdmin(t *testing.T) {
	tk := openTicketForUser(t, 42, 100)

	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return tk, nil
		},
	}
	uc := newCloseTicketUseCase(ticketRepo, &mockDispatcher{})

	result, err := uc.Execute(context.Background(), CloseTicketCommand{
		TicketID:    42,
		InitiatorID: 500,
		ByAdmin:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusClosedByAdmin, result.Status)
}

func TestCloseTicketUseCase_Execute_Idempotent(t *testing.T) {
	now := time.Now().UTC()
	closed, err := ticket.ReconstructTicket(42, 100, vo.StatusClosedByUser, now, now, &now, nil, nil)
	require.NoError(t, err)

	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return closed, nil
		},
		UpdateFunc: func(ctx context.Context, tt *ticket.Ticket) error {
			t.Fatal("no write may happen for an already closed ticket")
			return nil
		},
	}
	dispatcher := &mockDispatcher{}
	uc := newCloseTicketUseCase(ticketRepo, dispatcher)

	// A second close, even by the other party, returns the existing state.
	result, err := uc.Execute(context.Background(), CloseTicketCommand{
		TicketID:    42,
		InitiatorID: 500,
		ByAdmin:     true,
	})

	require.NoError(t, err)
	assert.True(t, result.AlreadyClosed)
	assert.Equal(t, vo.StatusClosedByUser, result.Status)
	assert.Empty(t, dispatcher.sent())
}

func TestCloseTicketUseCase_Execute_ForeignUserRejected(t *testing.T) {
	tk := openTicketForUser(t, 42, 100)

	ticketRepo := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return tk, nil
		},
	}
	uc := newCloseTicketUseCase(ticketRepo, &mockDispatcher{})

	_, err := uc.Execute(context.Background(), CloseTicketCommand{
		TicketID:    42,
		InitiatorID: 200,
	})

	assert.Error(t, err)
	assert.True(t, tk.IsActive())
}
