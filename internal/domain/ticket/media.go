package ticket

import "fmt"

// Media is an immutable file reference attached at creation time to exactly
// one question or answer, with a denormalized ticket back-reference for
// fast lookup. The engine never rewrites URLs or re-encodes content.
type Media struct {
	id         uint
	fileURL    string
	fileType   string
	filename   string
	questionID *uint
	answerID   *uint
	ticketID   uint
}

func NewQuestionMedia(fileURL, fileType, filename string) (*Media, error) {
	return newMedia(fileURL, fileType, filename)
}

func NewAnswerMedia(fileURL, fileType, filename string) (*Media, error) {
	return newMedia(fileURL, fileType, filename)
}

func newMedia(fileURL, fileType, filename string) (*Media, error) {
	if fileURL == "" {
		return nil, fmt.Errorf("file URL is required")
	}
	if fileType == "" {
		return nil, fmt.Errorf("file type is required")
	}
	if filename == "" {
		return nil, fmt.Errorf("filename is required")
	}
	return &Media{
		fileURL:  fileURL,
		fileType: fileType,
		filename: filename,
	}, nil
}

func ReconstructMedia(id uint, fileURL, fileType, filename string, questionID, answerID *uint, ticketID uint) (*Media, error) {
	if id == 0 {
		return nil, fmt.Errorf("media ID cannot be zero")
	}
	if questionID == nil && answerID == nil {
		return nil, fmt.Errorf("media must be attached to a question or an answer")
	}
	if questionID != nil && answerID != nil {
		return nil, fmt.Errorf("media cannot be attached to both a question and an answer")
	}
	return &Media{
		id:         id,
		fileURL:    fileURL,
		fileType:   fileType,
		filename:   filename,
		questionID: questionID,
		answerID:   answerID,
		ticketID:   ticketID,
	}, nil
}

func (m *Media) ID() uint          { return m.id }
func (m *Media) FileURL() string   { return m.fileURL }
func (m *Media) FileType() string  { return m.fileType }
func (m *Media) Filename() string  { return m.filename }
func (m *Media) QuestionID() *uint { return m.questionID }
func (m *Media) AnswerID() *uint   { return m.answerID }
func (m *Media) TicketID() uint    { return m.ticketID }

func (m *Media) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("media ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("media ID cannot be zero")
	}
	m.id = id
	return nil
}

// attachToQuestion binds the media to its owning question and ticket.
// Called once by the owning entity when it is persisted.
func (m *Media) attachToQuestion(questionID, ticketID uint) {
	m.questionID = &questionID
	m.answerID = nil
	m.ticketID = ticketID
}

func (m *Media) attachToAnswer(answerID, ticketID uint) {
	m.answerID = &answerID
	m.questionID = nil
	m.ticketID = ticketID
}
