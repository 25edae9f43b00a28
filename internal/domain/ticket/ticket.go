package ticket

import (
	"fmt"
	"time"

	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/shared/biztime"
)

// Ticket aggregates the questions a user escalated and the answers admins
// posted against them. A ticket always holds at least one question (the one
// that triggered escalation) and is closed exactly once, by either party.
type Ticket struct {
	id             uint
	userID         int64
	status         vo.Status
	createdAt      time.Time
	lastUpdated    time.Time
	completionTime *time.Time
	questions      []*Question
	answers        []*Answer
}

// NewTicket opens a ticket around its triggering question.
func NewTicket(userID int64, first *Question) (*Ticket, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if first == nil {
		return nil, fmt.Errorf("a ticket requires its triggering question")
	}
	if first.UserID() != userID {
		return nil, fmt.Errorf("triggering question belongs to another user")
	}

	now := biztime.NowUTC()
	t := &Ticket{
		userID:      userID,
		status:      vo.StatusOpen,
		createdAt:   now,
		lastUpdated: now,
		questions:   []*Question{first},
	}
	return t, nil
}

func ReconstructTicket(
	id uint,
	userID int64,
	status vo.Status,
	createdAt, lastUpdated time.Time,
	completionTime *time.Time,
	questions []*Question,
	answers []*Answer,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status")
	}
	if status.IsClosed() && completionTime == nil {
		return nil, fmt.Errorf("closed ticket must carry a completion time")
	}

	return &Ticket{
		id:             id,
		userID:         userID,
		status:         status,
		createdAt:      createdAt,
		lastUpdated:    lastUpdated,
		completionTime: completionTime,
		questions:      questions,
		answers:        answers,
	}, nil
}

func (t *Ticket) ID() uint                   { return t.id }
func (t *Ticket) UserID() int64              { return t.userID }
func (t *Ticket) Status() vo.Status          { return t.status }
func (t *Ticket) CreatedAt() time.Time       { return t.createdAt }
func (t *Ticket) LastUpdated() time.Time     { return t.lastUpdated }
func (t *Ticket) CompletionTime() *time.Time { return t.completionTime }

func (t *Ticket) IsActive() bool {
	return t.status.IsOpen()
}

func (t *Ticket) ClosedByUser() bool {
	return t.status == vo.StatusClosedByUser
}

func (t *Ticket) Questions() []*Question {
	questionsCopy := make([]*Question, len(t.questions))
	copy(questionsCopy, t.questions)
	return questionsCopy
}

func (t *Ticket) Answers() []*Answer {
	answersCopy := make([]*Answer, len(t.answers))
	copy(answersCopy, t.answers)
	return answersCopy
}

// FirstQuestion returns the triggering question.
func (t *Ticket) FirstQuestion() *Question {
	if len(t.questions) == 0 {
		return nil
	}
	return t.questions[0]
}

// Subject returns the subject line of the triggering question.
func (t *Ticket) Subject() string {
	if q := t.FirstQuestion(); q != nil {
		return q.Subject()
	}
	return ""
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	for _, q := range t.questions {
		q.linkToTicket(id)
	}
	return nil
}

// AppendQuestion adds a follow-up question. Rejected once the ticket is
// closed; a closed ticket never reactivates.
func (t *Ticket) AppendQuestion(q *Question) error {
	if q == nil {
		return fmt.Errorf("question cannot be nil")
	}
	if t.status.IsClosed() {
		return ErrTicketClosed
	}
	if q.UserID() != t.userID {
		return fmt.Errorf("question belongs to another user")
	}

	q.linkToTicket(t.id)
	t.questions = append(t.questions, q)
	t.touch()
	return nil
}

// AppendAnswer adds an admin reply. Answers from different admins may land
// on the same ticket; each append advances last_updated.
func (t *Ticket) AppendAnswer(a *Answer) error {
	if a == nil {
		return fmt.Errorf("answer cannot be nil")
	}
	if t.status.IsClosed() {
		return ErrTicketClosed
	}
	if a.TicketID() != t.id {
		return fmt.Errorf("answer ticket ID mismatch")
	}

	t.answers = append(t.answers, a)
	t.touch()
	return nil
}

// CloseByUser transitions the ticket to closed_by_user. Closing an already
// closed ticket is a no-op; the caller reads the resulting state.
func (t *Ticket) CloseByUser() {
	t.close(vo.StatusClosedByUser)
}

// CloseByAdmin transitions the ticket to closed_by_admin.
func (t *Ticket) CloseByAdmin() {
	t.close(vo.StatusClosedByAdmin)
}

func (t *Ticket) close(target vo.Status) {
	if t.status.IsClosed() {
		return
	}
	t.status = target
	now := biztime.NowUTC()
	t.completionTime = &now
	t.touch()
}

// touch advances last_updated monotonically even when the wall clock has
// not moved between two mutations.
func (t *Ticket) touch() {
	now := biztime.NowUTC()
	if !now.After(t.lastUpdated) {
		now = t.lastUpdated.Add(time.Millisecond)
	}
	t.lastUpdated = now
}
