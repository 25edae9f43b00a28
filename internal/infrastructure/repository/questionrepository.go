package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/shared/db"
)

// QuestionRepository stores questions that have no ticket, the audit trail
// for auto-answered questions.
type QuestionRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewQuestionRepository(database *gorm.DB) *QuestionRepository {
	return &QuestionRepository{
		db:     database,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *QuestionRepository) Save(ctx context.Context, q *ticket.Question) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.QuestionToModel(q)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	if err := q.SetID(model.ID); err != nil {
		return err
	}

	for _, m := range q.Media() {
		mediaModel := r.mapper.MediaToModel(m)
		if err := tx.Create(mediaModel).Error; err != nil {
			return fmt.Errorf("failed to save media file: %w", err)
		}
		if err := m.SetID(mediaModel.ID); err != nil {
			return err
		}
	}
	return nil
}
