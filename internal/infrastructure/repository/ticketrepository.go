package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/db"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(database *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     database,
		mapper: mappers.NewTicketMapper(),
	}
}

// Save persists a new ticket together with its triggering question and any
// attached media. Caller wraps it in a transaction when atomicity with other
// writes is needed.
func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.ToModel(t)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save ticket: %w", err)
	}
	if err := t.SetID(model.ID); err != nil {
		return err
	}

	for _, q := range t.Questions() {
		if err := r.saveQuestion(tx, q); err != nil {
			return err
		}
	}
	return nil
}

// Update persists ticket state. Flag columns are written explicitly so a
// close (active -> false) is not skipped as a zero value.
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := r.mapper.ToModel(t)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"active":          model.Active,
			"closed_by_user":  model.ClosedByUser,
			"last_updated":    model.LastUpdated,
			"completion_time": model.CompletionTime,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.TicketModel
	if err := tx.First(&model, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	questions, err := r.loadQuestions(tx, ticketID)
	if err != nil {
		return nil, err
	}
	answers, err := r.loadAnswers(tx, ticketID)
	if err != nil {
		return nil, err
	}

	return r.mapper.ToDomain(&model, questions, answers)
}

func (r *TicketRepository) SaveQuestion(ctx context.Context, q *ticket.Question) error {
	tx := db.GetTxFromContext(ctx, r.db)
	return r.saveQuestion(tx, q)
}

func (r *TicketRepository) SaveAnswer(ctx context.Context, a *ticket.Answer) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.AnswerToModel(a)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	if err := a.SetID(model.ID); err != nil {
		return err
	}
	return r.saveMedia(tx, a.Media())
}

func (r *TicketRepository) ListActive(ctx context.Context, offset, limit int) ([]*ticket.TicketSummary, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.TicketModel
	if err := tx.
		Where("active = ?", true).
		Order("last_updated DESC").
		Scopes(db.Paginate(offset, limit)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list active tickets: %w", err)
	}

	summaries := make([]*ticket.TicketSummary, 0, len(rows))
	for i := range rows {
		t, err := r.hydrate(tx, &rows[i])
		if err != nil {
			return nil, err
		}
		name, err := r.lastAdminName(tx, rows[i].ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &ticket.TicketSummary{Ticket: t, LastAdminName: name})
	}
	return summaries, nil
}

func (r *TicketRepository) ListClosed(ctx context.Context) ([]*ticket.Ticket, error) {
	return r.listByCondition(ctx, "active = ?", false)
}

func (r *TicketRepository) GetUserTickets(ctx context.Context, userID int64) ([]*ticket.Ticket, error) {
	return r.listByCondition(ctx, "user_id = ?", userID)
}

func (r *TicketRepository) GetUserClosedTickets(ctx context.Context, userID int64) ([]*ticket.Ticket, error) {
	return r.listByCondition(ctx, "user_id = ? AND active = ?", userID, false)
}

// GetHistory returns the merged question and answer timeline of a ticket,
// ordered by creation time.
func (r *TicketRepository) GetHistory(ctx context.Context, ticketID uint) ([]ticket.HistoryEntry, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	questions, err := r.loadQuestions(tx, ticketID)
	if err != nil {
		return nil, err
	}
	answers, err := r.loadAnswers(tx, ticketID)
	if err != nil {
		return nil, err
	}

	entries := make([]ticket.HistoryEntry, 0, len(questions)+len(answers))
	for _, q := range questions {
		entries = append(entries, ticket.HistoryEntry{
			Kind:      ticket.HistoryQuestion,
			AuthorID:  q.UserID(),
			Text:      q.Text(),
			CreatedAt: q.CreatedAt(),
			Media:     q.Media(),
		})
	}
	for _, a := range answers {
		entries = append(entries, ticket.HistoryEntry{
			Kind:      ticket.HistoryAnswer,
			AuthorID:  a.AdminID(),
			Text:      a.Text(),
			CreatedAt: a.CreatedAt(),
			Media:     a.Media(),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (r *TicketRepository) saveQuestion(tx *gorm.DB, q *ticket.Question) error {
	model := r.mapper.QuestionToModel(q)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	if err := q.SetID(model.ID); err != nil {
		return err
	}
	return r.saveMedia(tx, q.Media())
}

func (r *TicketRepository) saveMedia(tx *gorm.DB, media []*ticket.Media) error {
	for _, m := range media {
		model := r.mapper.MediaToModel(m)
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save media file: %w", err)
		}
		if err := m.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *TicketRepository) listByCondition(ctx context.Context, cond string, args ...interface{}) ([]*ticket.Ticket, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.TicketModel
	if err := tx.
		Where(cond, args...).
		Order("last_updated DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]*ticket.Ticket, 0, len(rows))
	for i := range rows {
		t, err := r.hydrate(tx, &rows[i])
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (r *TicketRepository) hydrate(tx *gorm.DB, model *models.TicketModel) (*ticket.Ticket, error) {
	questions, err := r.loadQuestions(tx, model.ID)
	if err != nil {
		return nil, err
	}
	answers, err := r.loadAnswers(tx, model.ID)
	if err != nil {
		return nil, err
	}
	return r.mapper.ToDomain(model, questions, answers)
}

func (r *TicketRepository) loadQuestions(tx *gorm.DB, ticketID uint) ([]*ticket.Question, error) {
	var rows []models.QuestionModel
	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	questions := make([]*ticket.Question, 0, len(rows))
	for i := range rows {
		media, err := r.loadMedia(tx, "question_id = ?", rows[i].ID)
		if err != nil {
			return nil, err
		}
		q, err := r.mapper.QuestionToDomain(&rows[i], media)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (r *TicketRepository) loadAnswers(tx *gorm.DB, ticketID uint) ([]*ticket.Answer, error) {
	var rows []models.AnswerModel
	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	answers := make([]*ticket.Answer, 0, len(rows))
	for i := range rows {
		media, err := r.loadMedia(tx, "answer_id = ?", rows[i].ID)
		if err != nil {
			return nil, err
		}
		a, err := r.mapper.AnswerToDomain(&rows[i], media)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, nil
}

func (r *TicketRepository) loadMedia(tx *gorm.DB, cond string, args ...interface{}) ([]*ticket.Media, error) {
	var rows []models.MediaFileModel
	if err := tx.Where(cond, args...).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load media files: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	media := make([]*ticket.Media, 0, len(rows))
	for i := range rows {
		m, err := r.mapper.MediaToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, nil
}

func (r *TicketRepository) lastAdminName(tx *gorm.DB, ticketID uint) (string, error) {
	var answer models.AnswerModel
	err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at DESC, id DESC").
		First(&answer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load last answer: %w", err)
	}

	var admin models.UserModel
	err = tx.Where("telegram_id = ?", answer.AdminID).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load answering admin: %w", err)
	}
	return admin.Username, nil
}
