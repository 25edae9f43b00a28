// Package delivery dispatches outbound intents through the transport
// gateway with bounded retries, records outcomes in the delivery log, and
// raises an operator alert when an intent exhausts its retry budget.
package delivery

import (
	"context"
	"fmt"
	"time"

	"helpdesk/internal/domain/delivery"
	"helpdesk/internal/shared/config"
	"helpdesk/internal/shared/logger"
)

// OperatorNotifier surfaces exhausted deliveries to a human operator
// channel. It must not block dispatching on its own failures.
type OperatorNotifier interface {
	Alert(ctx context.Context, intent delivery.Intent, lastErr error) error
}

type Dispatcher struct {
	gateway     delivery.Gateway
	logRepo     delivery.LogRepository
	operator    OperatorNotifier
	maxAttempts int
	backoffBase time.Duration
	logger      logger.Interface
}

func NewDispatcher(
	gateway delivery.Gateway,
	logRepo delivery.LogRepository,
	operator OperatorNotifier,
	cfg *config.DeliveryConfig,
	logger logger.Interface,
) *Dispatcher {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	backoffBase := time.Duration(cfg.BackoffBaseMS) * time.Millisecond
	if backoffBase <= 0 {
		backoffBase = 200 * time.Millisecond
	}
	return &Dispatcher{
		gateway:     gateway,
		logRepo:     logRepo,
		operator:    operator,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		logger:      logger,
	}
}

// Dispatch sends one intent, retrying transient failures with exponential
// backoff. State mutations committed before the call are never rolled back
// on failure; the outcome lands in the delivery log either way.
func (d *Dispatcher) Dispatch(ctx context.Context, intent delivery.Intent) (string, error) {
	if err := intent.Validate(); err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		token, err := d.gateway.Send(ctx, intent)
		if err == nil {
			d.record(ctx, intent, delivery.LogStatusSent, attempt, nil)
			return token, nil
		}
		lastErr = err

		d.logger.Warnw("delivery attempt failed",
			"kind", string(intent.Kind),
			"recipient_id", intent.RecipientID,
			"ticket_id", intent.TicketID,
			"attempt", attempt,
			"error", err)

		if attempt == d.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			d.record(ctx, intent, delivery.LogStatusFailed, attempt, ctx.Err())
			return "", ctx.Err()
		case <-time.After(d.backoffBase << (attempt - 1)):
		}
	}

	d.record(ctx, intent, delivery.LogStatusFailed, d.maxAttempts, lastErr)

	if d.operator != nil {
		if err := d.operator.Alert(ctx, intent, lastErr); err != nil {
			d.logger.Errorw("operator alert failed",
				"recipient_id", intent.RecipientID, "error", err)
		}
	}

	return "", fmt.Errorf("delivery failed after %d attempts: %w", d.maxAttempts, lastErr)
}

func (d *Dispatcher) record(ctx context.Context, intent delivery.Intent, status delivery.LogStatus, attempts int, cause error) {
	if d.logRepo == nil {
		return
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	entry, err := delivery.NewLogEntry(intent, status, attempts, msg)
	if err != nil {
		d.logger.Errorw("failed to build delivery log entry", "error", err)
		return
	}
	if err := d.logRepo.Save(ctx, entry); err != nil {
		d.logger.Errorw("failed to save delivery log entry", "error", err)
	}
}
