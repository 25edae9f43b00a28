package mappers

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"helpdesk/internal/domain/delivery"
	"helpdesk/internal/infrastructure/persistence/models"
)

type DeliveryLogMapper interface {
	ToModel(entry *delivery.LogEntry) *models.DeliveryLogModel
	ToDomain(model *models.DeliveryLogModel) *delivery.LogEntry
}

type DeliveryLogMapperImpl struct{}

func NewDeliveryLogMapper() DeliveryLogMapper {
	return &DeliveryLogMapperImpl{}
}

func (m *DeliveryLogMapperImpl) ToModel(entry *delivery.LogEntry) *models.DeliveryLogModel {
	model := &models.DeliveryLogModel{
		ID:          entry.ID(),
		Kind:        string(entry.Kind()),
		RecipientID: entry.RecipientID(),
		TicketID:    entry.TicketID(),
		Status:      string(entry.Status()),
		Attempts:    entry.Attempts(),
		LastError:   entry.LastError(),
		CreatedAt:   entry.CreatedAt().UnixMilli(),
	}
	if payload := entry.Payload(); len(payload) > 0 {
		if raw, err := json.Marshal(payload); err == nil {
			model.Payload = datatypes.JSON(raw)
		}
	}
	return model
}

func (m *DeliveryLogMapperImpl) ToDomain(model *models.DeliveryLogModel) *delivery.LogEntry {
	var payload map[string]any
	if len(model.Payload) > 0 {
		_ = json.Unmarshal(model.Payload, &payload)
	}
	return delivery.ReconstructLogEntry(
		model.ID,
		delivery.Kind(model.Kind),
		model.RecipientID,
		model.TicketID,
		delivery.LogStatus(model.Status),
		model.Attempts,
		model.LastError,
		payload,
		time.UnixMilli(model.CreatedAt).UTC(),
	)
}
