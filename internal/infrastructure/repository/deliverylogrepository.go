package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"helpdesk/internal/domain/delivery"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/db"
)

type DeliveryLogRepository struct {
	db     *gorm.DB
	mapper mappers.DeliveryLogMapper
}

func NewDeliveryLogRepository(database *gorm.DB) *DeliveryLogRepository {
	return &DeliveryLogRepository{
		db:     database,
		mapper: mappers.NewDeliveryLogMapper(),
	}
}

func (r *DeliveryLogRepository) Save(ctx context.Context, entry *delivery.LogEntry) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.ToModel(entry)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save delivery log entry: %w", err)
	}
	return entry.SetID(model.ID)
}

func (r *DeliveryLogRepository) ListFailed(ctx context.Context, limit int) ([]*delivery.LogEntry, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var rows []models.DeliveryLogModel
	if err := tx.
		Where("status = ?", string(delivery.LogStatusFailed)).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list failed deliveries: %w", err)
	}

	entries := make([]*delivery.LogEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, r.mapper.ToDomain(&rows[i]))
	}
	return entries, nil
}
