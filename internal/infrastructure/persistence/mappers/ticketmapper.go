package mappers

import (
	"time"

	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between ticket aggregate entities and
// persistence models. Questions and answers are loaded separately by the
// repository and passed into ToDomain.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel, questions []*ticket.Question, answers []*ticket.Answer) (*ticket.Ticket, error)

	QuestionToModel(q *ticket.Question) *models.QuestionModel
	QuestionToDomain(model *models.QuestionModel, media []*ticket.Media) (*ticket.Question, error)

	AnswerToModel(a *ticket.Answer) *models.AnswerModel
	AnswerToDomain(model *models.AnswerModel, media []*ticket.Media) (*ticket.Answer, error)

	MediaToModel(m *ticket.Media) *models.MediaFileModel
	MediaToDomain(model *models.MediaFileModel) (*ticket.Media, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	active, closedByUser := t.Status().Flags()
	model := &models.TicketModel{
		ID:           t.ID(),
		UserID:       t.UserID(),
		Active:       active,
		ClosedByUser: closedByUser,
		CreatedAt:    t.CreatedAt().UnixMilli(),
		LastUpdated:  t.LastUpdated().UnixMilli(),
	}
	if ct := t.CompletionTime(); ct != nil {
		completed := ct.UnixMilli()
		model.CompletionTime = &completed
	}
	return model
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel, questions []*ticket.Question, answers []*ticket.Answer) (*ticket.Ticket, error) {
	var completionTime *time.Time
	if model.CompletionTime != nil {
		ct := time.UnixMilli(*model.CompletionTime).UTC()
		completionTime = &ct
	}
	return ticket.ReconstructTicket(
		model.ID,
		model.UserID,
		vo.StatusFromFlags(model.Active, model.ClosedByUser),
		time.UnixMilli(model.CreatedAt).UTC(),
		time.UnixMilli(model.LastUpdated).UTC(),
		completionTime,
		questions,
		answers,
	)
}

func (m *TicketMapperImpl) QuestionToModel(q *ticket.Question) *models.QuestionModel {
	model := &models.QuestionModel{
		ID:        q.ID(),
		UserID:    q.UserID(),
		Text:      q.Text(),
		Subject:   q.Subject(),
		CreatedAt: q.CreatedAt().UnixMilli(),
	}
	if q.TicketID() != 0 {
		ticketID := q.TicketID()
		model.TicketID = &ticketID
	}
	return model
}

func (m *TicketMapperImpl) QuestionToDomain(model *models.QuestionModel, media []*ticket.Media) (*ticket.Question, error) {
	ticketID := uint(0)
	if model.TicketID != nil {
		ticketID = *model.TicketID
	}
	return ticket.ReconstructQuestion(
		model.ID,
		model.UserID,
		ticketID,
		model.Text,
		model.Subject,
		time.UnixMilli(model.CreatedAt).UTC(),
		media,
	)
}

func (m *TicketMapperImpl) AnswerToModel(a *ticket.Answer) *models.AnswerModel {
	return &models.AnswerModel{
		ID:        a.ID(),
		TicketID:  a.TicketID(),
		AdminID:   a.AdminID(),
		Text:      a.Text(),
		CreatedAt: a.CreatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) AnswerToDomain(model *models.AnswerModel, media []*ticket.Media) (*ticket.Answer, error) {
	return ticket.ReconstructAnswer(
		model.ID,
		model.TicketID,
		model.AdminID,
		model.Text,
		time.UnixMilli(model.CreatedAt).UTC(),
		media,
	)
}

func (m *TicketMapperImpl) MediaToModel(md *ticket.Media) *models.MediaFileModel {
	return &models.MediaFileModel{
		ID:         md.ID(),
		FileURL:    md.FileURL(),
		FileType:   md.FileType(),
		Filename:   md.Filename(),
		QuestionID: md.QuestionID(),
		AnswerID:   md.AnswerID(),
		TicketID:   md.TicketID(),
	}
}

func (m *TicketMapperImpl) MediaToDomain(model *models.MediaFileModel) (*ticket.Media, error) {
	return ticket.ReconstructMedia(
		model.ID,
		model.FileURL,
		model.FileType,
		model.Filename,
		model.QuestionID,
		model.AnswerID,
		model.TicketID,
	)
}
