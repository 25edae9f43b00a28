package delivery

import (
	"context"
	"fmt"
	"time"

	"helpdesk/internal/shared/biztime"
)

type LogStatus string

const (
	LogStatusSent   LogStatus = "sent"
	LogStatusFailed LogStatus = "failed"
)

// LogEntry records the outcome of one dispatched intent, including how many
// attempts it took. Failed entries are what the operator alert points at.
type LogEntry struct {
	id          uint
	kind        Kind
	recipientID int64
	ticketID    uint
	status      LogStatus
	attempts    int
	lastError   string
	payload     map[string]any
	createdAt   time.Time
}

func NewLogEntry(intent Intent, status LogStatus, attempts int, lastError string) (*LogEntry, error) {
	if attempts < 1 {
		return nil, fmt.Errorf("log entry requires at least one attempt")
	}
	payload := map[string]any{
		"subject":     intent.Subject,
		"text_length": len(intent.Text),
		"media_count": len(intent.Media),
	}
	return &LogEntry{
		kind:        intent.Kind,
		recipientID: intent.RecipientID,
		ticketID:    intent.TicketID,
		status:      status,
		attempts:    attempts,
		lastError:   lastError,
		payload:     payload,
		createdAt:   biztime.NowUTC(),
	}, nil
}

func ReconstructLogEntry(
	id uint,
	kind Kind,
	recipientID int64,
	ticketID uint,
	status LogStatus,
	attempts int,
	lastError string,
	payload map[string]any,
	createdAt time.Time,
) *LogEntry {
	return &LogEntry{
		id:          id,
		kind:        kind,
		recipientID: recipientID,
		ticketID:    ticketID,
		status:      status,
		attempts:    attempts,
		lastError:   lastError,
		payload:     payload,
		createdAt:   createdAt,
	}
}

func (e *LogEntry) ID() uint                { return e.id }
func (e *LogEntry) Kind() Kind              { return e.kind }
func (e *LogEntry) RecipientID() int64      { return e.recipientID }
func (e *LogEntry) TicketID() uint          { return e.ticketID }
func (e *LogEntry) Status() LogStatus       { return e.status }
func (e *LogEntry) Attempts() int           { return e.attempts }
func (e *LogEntry) LastError() string       { return e.lastError }
func (e *LogEntry) Payload() map[string]any { return e.payload }
func (e *LogEntry) CreatedAt() time.Time    { return e.createdAt }

func (e *LogEntry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("log entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("log entry ID cannot be zero")
	}
	e.id = id
	return nil
}

// LogRepository persists delivery outcomes for audit and operator review.
type LogRepository interface {
	Save(ctx context.Context, entry *LogEntry) error
	ListFailed(ctx context.Context, limit int) ([]*LogEntry, error)
}
