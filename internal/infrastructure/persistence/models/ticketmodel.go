package models

type TicketModel struct {
	ID             uint  `gorm:"primaryKey"`
	UserID         int64 `gorm:"not null;index"`
	Active         bool  `gorm:"not null;default:true;index"`
	ClosedByUser   bool  `gorm:"not null;default:false"`
	CreatedAt      int64 `gorm:"autoCreateTime:milli;not null"`
	LastUpdated    int64 `gorm:"not null;index"`
	CompletionTime *int64

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return "tickets"
}

type QuestionModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    int64  `gorm:"not null;index"`
	TicketID  *uint  `gorm:"index"`
	Text      string `gorm:"type:text;not null"`
	Subject   string `gorm:"size:255"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null;index"`
}

func (QuestionModel) TableName() string {
	return "questions"
}

type AnswerModel struct {
	ID        uint   `gorm:"primaryKey"`
	TicketID  uint   `gorm:"not null;index"`
	AdminID   int64  `gorm:"not null;index"`
	Text      string `gorm:"type:text"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null;index"`
}

func (AnswerModel) TableName() string {
	return "answers"
}

type MediaFileModel struct {
	ID         uint   `gorm:"primaryKey"`
	FileURL    string `gorm:"size:512;not null"`
	FileType   string `gorm:"size:50;not null"`
	Filename   string `gorm:"size:255"`
	QuestionID *uint  `gorm:"index"`
	AnswerID   *uint  `gorm:"index"`
	TicketID   uint   `gorm:"index"`
	CreatedAt  int64  `gorm:"autoCreateTime:milli;not null"`
}

func (MediaFileModel) TableName() string {
	return "media_files"
}
