package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaindelivery "helpdesk/internal/domain/delivery"
	"helpdesk/internal/shared/config"
	"helpdesk/internal/shared/logger"
)

type mockGateway struct {
	SendFunc func(ctx context.Context, intent domaindelivery.Intent) (string, error)
	calls    int
}

func (m *mockGateway) Send(ctx context.Context, intent domaindelivery.Intent) (string, error) {
	m.calls++
	if m.SendFunc != nil {
		return m.SendFunc(ctx, intent)
	}
	return "tok", nil
}

type mockLogRepo struct {
	entries []*domaindelivery.LogEntry
}

func (m *mockLogRepo) Save(ctx context.Context, entry *domaindelivery.LogEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLogRepo) ListFailed(ctx context.Context, limit int) ([]*domaindelivery.LogEntry, error) {
	return nil, nil
}

type mockOperator struct {
	alerts int
}

func (m *mockOperator) Alert(ctx context.Context, intent domaindelivery.Intent, lastErr error) error {
	m.alerts++
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                   {}
func (nopLogger) Info(msg string, args ...any)                    {}
func (nopLogger) Warn(msg string, args ...any)                    {}
func (nopLogger) Error(msg string, args ...any)                   {}
func (nopLogger) Fatal(msg string, args ...any)                   {}
func (nopLogger) With(args ...any) logger.Interface               { return nopLogger{} }
func (nopLogger) Named(name string) logger.Interface              { return nopLogger{} }
func (nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

func testIntent() domaindelivery.Intent {
	return domaindelivery.Intent{
		Kind:        domaindelivery.KindAnswerToUser,
		RecipientID: 100,
		TicketID:    42,
		Text:        "answer",
	}
}

func testConfig() *config.DeliveryConfig {
	return &config.DeliveryConfig{MaxAttempts: 3, BackoffBaseMS: 1}
}

func TestDispatcher_Dispatch_Success(t *testing.T) {
	gateway := &mockGateway{}
	logRepo := &mockLogRepo{}
	d := NewDispatcher(gateway, logRepo, &mockOperator{}, testConfig(), nopLogger{})

	token, err := d.Dispatch(context.Background(), testIntent())

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, 1, gateway.calls)

	require.Len(t, logRepo.entries, 1)
	assert.Equal(t, domaindelivery.LogStatusSent, logRepo.entries[0].Status())
	assert.Equal(t, 1, logRepo.entries[0].Attempts())
}

func TestDispatcher_Dispatch_RetriesThenSucceeds(t *testing.T) {
	gateway := &mockGateway{}
	gateway.SendFunc = func(ctx context.Context, intent domaindelivery.Intent) (string, error) {
		if gateway.calls < 3 {
			return "", domaindelivery.ErrSendFailed
		}
		return "tok", nil
	}
	operator := &mockOperator{}
	d := NewDispatcher(gateway, &mockLogRepo{}, operator, testConfig(), nopLogger{})

	token, err := d.Dispatch(context.Background(), testIntent())

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, 3, gateway.calls)
	assert.Zero(t, operator.alerts)
}

func TestDispatcher_Dispatch_ExhaustsRetries(t *testing.T) {
	gateway := &mockGateway{
		SendFunc: func(ctx context.Context, intent domaindelivery.Intent) (string, error) {
			return "", errors.New("chat not found")
		},
	}
	logRepo := &mockLogRepo{}
	operator := &mockOperator{}
	d := NewDispatcher(gateway, logRepo, operator, testConfig(), nopLogger{})

	_, err := d.Dispatch(context.Background(), testIntent())

	require.Error(t, err)
	assert.Equal(t, 3, gateway.calls, "retries are bounded")
	assert.Equal(t, 1, operator.alerts, "exhaustion is surfaced to the operator channel")

	require.Len(t, logRepo.entries, 1)
	assert.Equal(t, domaindelivery.LogStatusFailed, logRepo.entries[0].Status())
	assert.Equal(t, 3, logRepo.entries[0].Attempts())
	assert.Contains(t, logRepo.entries[0].LastError(), "chat not found")
}

func TestDispatcher_Dispatch_ContextCancelledStopsRetrying(t *testing.T) {
	gateway := &mockGateway{
		SendFunc: func(ctx context.Context, intent domaindelivery.Intent) (string, error) {
			return "", domaindelivery.ErrSendFailed
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDispatcher(gateway, &mockLogRepo{}, &mockOperator{}, testConfig(), nopLogger{})
	_, err := d.Dispatch(ctx, testIntent())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, gateway.calls)
}

func TestDispatcher_Dispatch_InvalidIntent(t *testing.T) {
	gateway := &mockGateway{}
	d := NewDispatcher(gateway, &mockLogRepo{}, &mockOperator{}, testConfig(), nopLogger{})

	_, err := d.Dispatch(context.Background(), domaindelivery.Intent{Kind: domaindelivery.KindAutoAnswer})

	require.Error(t, err)
	assert.Zero(t, gateway.calls)
}
