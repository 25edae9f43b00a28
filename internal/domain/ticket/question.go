package ticket

import (
	"fmt"
	"time"

	"helpdesk/internal/shared/biztime"
)

// Question is a user message. It stays unlinked (ticketID == 0) while a
// retrieval verdict is pending or when it was answered automatically, and
// is linked to a ticket on escalation.
type Question struct {
	id        uint
	userID    int64
	ticketID  uint
	text      string
	subject   string
	createdAt time.Time
	media     []*Media
}

func NewQuestion(userID int64, text, subject string, media []*Media) (*Question, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if len(text) == 0 {
		return nil, fmt.Errorf("question text cannot be empty")
	}
	if len(text) > 3000 {
		return nil, fmt.Errorf("question text exceeds maximum length of 3000 characters")
	}
	if len(subject) > 255 {
		return nil, fmt.Errorf("subject exceeds maximum length of 255 characters")
	}

	return &Question{
		userID:    userID,
		text:      text,
		subject:   subject,
		createdAt: biztime.NowUTC(),
		media:     media,
	}, nil
}

func ReconstructQuestion(
	id uint,
	userID int64,
	ticketID uint,
	text, subject string,
	createdAt time.Time,
	media []*Media,
) (*Question, error) {
	if id == 0 {
		return nil, fmt.Errorf("question ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	return &Question{
		id:        id,
		userID:    userID,
		ticketID:  ticketID,
		text:      text,
		subject:   subject,
		createdAt: createdAt,
		media:     media,
	}, nil
}

func (q *Question) ID() uint             { return q.id }
func (q *Question) UserID() int64        { return q.userID }
func (q *Question) TicketID() uint       { return q.ticketID }
func (q *Question) Text() string         { return q.text }
func (q *Question) Subject() string      { return q.subject }
func (q *Question) CreatedAt() time.Time { return q.createdAt }

func (q *Question) Media() []*Media {
	mediaCopy := make([]*Media, len(q.media))
	copy(mediaCopy, q.media)
	return mediaCopy
}

func (q *Question) SetID(id uint) error {
	if q.id != 0 {
		return fmt.Errorf("question ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("question ID cannot be zero")
	}
	q.id = id
	for _, m := range q.media {
		m.attachToQuestion(id, q.ticketID)
	}
	return nil
}

// linkToTicket binds the question to the ticket it escalated into.
func (q *Question) linkToTicket(ticketID uint) {
	q.ticketID = ticketID
	for _, m := range q.media {
		m.attachToQuestion(q.id, ticketID)
	}
}

// ExtractSubject derives a subject line from the question text: the first
// sentence when one exists, otherwise the first word.
func ExtractSubject(text string) string {
	for i, r := range text {
		if r == '.' {
			return text[:i]
		}
	}
	for i, r := range text {
		if r == ' ' {
			return text[:i]
		}
	}
	return text
}
