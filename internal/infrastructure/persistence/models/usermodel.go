package models

type UserModel struct {
	TelegramID int64  `gorm:"primaryKey;autoIncrement:false"`
	Username   string `gorm:"size:30;not null;default:unknown_user"`
	FullName   string `gorm:"size:100"`
	IsAdmin    bool   `gorm:"not null;default:false;index"`
	CreatedAt  int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt  int64  `gorm:"autoUpdateTime:milli;not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (UserModel) TableName() string {
	return "users"
}
