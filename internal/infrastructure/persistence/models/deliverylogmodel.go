package models

import "gorm.io/datatypes"

type DeliveryLogModel struct {
	ID          uint           `gorm:"primaryKey"`
	Kind        string         `gorm:"size:50;not null;index"`
	RecipientID int64          `gorm:"not null;index"`
	TicketID    uint           `gorm:"index"`
	Status      string         `gorm:"size:20;not null;index"`
	Attempts    int            `gorm:"not null;default:1"`
	LastError   string         `gorm:"size:512"`
	Payload     datatypes.JSON `gorm:"type:json"`
	CreatedAt   int64          `gorm:"autoCreateTime:milli;not null;index"`
}

func (DeliveryLogModel) TableName() string {
	return "delivery_log"
}
