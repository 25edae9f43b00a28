package ticket

import (
	"fmt"
	"time"

	"helpdesk/internal/shared/biztime"
)

// Answer is an administrator reply appended to an active ticket. A ticket
// may hold answers from several admins; ordering follows append order.
type Answer struct {
	id        uint
	ticketID  uint
	adminID   int64
	text      string
	createdAt time.Time
	media     []*Media
}

func NewAnswer(ticketID uint, adminID int64, text string, media []*Media) (*Answer, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if adminID == 0 {
		return nil, fmt.Errorf("admin ID is required")
	}
	if len(text) == 0 && len(media) == 0 {
		return nil, fmt.Errorf("answer must carry text or media")
	}
	if len(text) > 3000 {
		return nil, fmt.Errorf("answer text exceeds maximum length of 3000 characters")
	}

	return &Answer{
		ticketID:  ticketID,
		adminID:   adminID,
		text:      text,
		createdAt: biztime.NowUTC(),
		media:     media,
	}, nil
}

func ReconstructAnswer(
	id uint,
	ticketID uint,
	adminID int64,
	text string,
	createdAt time.Time,
	media []*Media,
) (*Answer, error) {
	if id == 0 {
		return nil, fmt.Errorf("answer ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if adminID == 0 {
		return nil, fmt.Errorf("admin ID is required")
	}
	return &Answer{
		id:        id,
		ticketID:  ticketID,
		adminID:   adminID,
		text:      text,
		createdAt: createdAt,
		media:     media,
	}, nil
}

func (a *Answer) ID() uint             { return a.id }
func (a *Answer) TicketID() uint       { return a.ticketID }
func (a *Answer) AdminID() int64       { return a.adminID }
func (a *Answer) Text() string         { return a.text }
func (a *Answer) CreatedAt() time.Time { return a.createdAt }

func (a *Answer) Media() []*Media {
	mediaCopy := make([]*Media, len(a.media))
	copy(mediaCopy, a.media)
	return mediaCopy
}

func (a *Answer) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("answer ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("answer ID cannot be zero")
	}
	a.id = id
	for _, m := range a.media {
		m.attachToAnswer(id, a.ticketID)
	}
	return nil
}
