package models

type MigrationModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null;uniqueIndex"`
	AppliedAt int64  `gorm:"autoCreateTime:milli;not null"`
}

func (MigrationModel) TableName() string {
	return "migrations"
}
