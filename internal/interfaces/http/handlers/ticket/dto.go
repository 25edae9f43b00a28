package ticket

import (
	"time"

	"helpdesk/internal/application/ticket/usecases"
)

type TicketListItemResponse struct {
	TicketID      uint      `json:"ticket_id"`
	UserID        int64     `json:"user_id"`
	Subject       string    `json:"subject"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdated   time.Time `json:"last_updated"`
	LastAdminName string    `json:"last_admin_name,omitempty"`
}

func toListItems(items []usecases.TicketListItem) []TicketListItemResponse {
	out := make([]TicketListItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, TicketListItemResponse{
			TicketID:      item.TicketID,
			UserID:        item.UserID,
			Subject:       item.Subject,
			Status:        item.Status,
			CreatedAt:     item.CreatedAt,
			LastUpdated:   item.LastUpdated,
			LastAdminName: item.LastAdminName,
		})
	}
	return out
}

type HistoryMessageResponse struct {
	Kind      string    `json:"kind"`
	AuthorID  int64     `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	MediaURLs []string  `json:"media_urls,omitempty"`
}

type TicketHistoryResponse struct {
	TicketID uint                     `json:"ticket_id"`
	Subject  string                   `json:"subject"`
	Status   string                   `json:"status"`
	Messages []HistoryMessageResponse `json:"messages"`
}

func toHistoryResponse(result *usecases.GetTicketHistoryResult) TicketHistoryResponse {
	messages := make([]HistoryMessageResponse, 0, len(result.Messages))
	for _, m := range result.Messages {
		messages = append(messages, HistoryMessageResponse{
			Kind:      m.Kind,
			AuthorID:  m.AuthorID,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
			MediaURLs: m.MediaURLs,
		})
	}
	return TicketHistoryResponse{
		TicketID: result.TicketID,
		Subject:  result.Subject,
		Status:   result.Status,
		Messages: messages,
	}
}

type CloseTicketResponse struct {
	TicketID      uint   `json:"ticket_id"`
	Status        string `json:"status"`
	AlreadyClosed bool   `json:"already_closed"`
}
