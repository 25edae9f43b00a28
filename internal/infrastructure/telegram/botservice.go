// Package telegram implements the Bot API transport: the outbound delivery
// gateway and the long-polling inbound pipeline.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	sharedConfig "helpdesk/internal/shared/config"
)

const defaultAPIBaseURL = "https://api.telegram.org"

// BotService provides the Telegram Bot API operations the helpdesk needs.
type BotService struct {
	config      sharedConfig.TelegramConfig
	httpClient  *http.Client
	baseURL     string
	fileBaseURL string
	botUsername string // cached from getMe
}

// NewBotService creates a new Telegram bot service.
func NewBotService(config sharedConfig.TelegramConfig) *BotService {
	apiBase := config.APIBaseURL
	if apiBase == "" {
		apiBase = defaultAPIBaseURL
	}
	s := &BotService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     fmt.Sprintf("%s/bot%s", apiBase, config.BotToken),
		fileBaseURL: fmt.Sprintf("%s/file/bot%s", apiBase, config.BotToken),
	}
	if config.BotToken != "" {
		_ = s.fetchBotUsername()
	}
	return s
}

// BotCommand represents a bot command for the command menu.
type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// SetMyCommands sets the list of bot commands shown in the command menu.
func (s *BotService) SetMyCommands(commands []BotCommand) error {
	url := fmt.Sprintf("%s/setMyCommands", s.baseURL)
	body := map[string]any{
		"commands": commands,
	}
	_, err := s.makeRequest(url, body)
	return err
}

// SetMyCommandsForChat sets commands visible only in a specific chat.
func (s *BotService) SetMyCommandsForChat(chatID int64, commands []BotCommand) error {
	url := fmt.Sprintf("%s/setMyCommands", s.baseURL)
	body := map[string]any{
		"commands": commands,
		"scope": map[string]any{
			"type":    "chat",
			"chat_id": chatID,
		},
	}
	_, err := s.makeRequest(url, body)
	return err
}

// DeleteWebhook removes any configured webhook. Long polling rejects updates
// while a webhook is set, so this runs before the first poll.
func (s *BotService) DeleteWebhook() error {
	url := fmt.Sprintf("%s/deleteWebhook", s.baseURL)
	_, err := s.makeRequest(url, nil)
	return err
}

// GetUpdatesWithContext retrieves updates using long polling. The context
// cancels the in-flight request during graceful shutdown.
func (s *BotService) GetUpdatesWithContext(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	apiURL := fmt.Sprintf("%s/getUpdates", s.baseURL)

	body := map[string]any{
		"timeout": timeout,
	}
	if offset > 0 {
		body["offset"] = offset
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	// Extended timeout so the client outlives the long poll itself.
	client := &http.Client{
		Timeout: time.Duration(timeout+10) * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result getUpdatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.OK {
		return nil, fmt.Errorf("telegram API error: %s", result.Description)
	}

	return result.Result, nil
}

// SendMessage sends an HTML-formatted message and returns the sent message ID.
// Messages over the Bot API length limit are split at paragraph boundaries;
// the returned ID is the last chunk's, which is the message users reply to.
func (s *BotService) SendMessage(chatID int64, text string) (int64, error) {
	var lastID int64
	for _, chunk := range splitMessage(text, maxMessageLength) {
		url := fmt.Sprintf("%s/sendMessage", s.baseURL)
		body := map[string]any{
			"chat_id":    chatID,
			"text":       chunk,
			"parse_mode": "HTML",
		}
		msg, err := s.makeRequest(url, body)
		if err != nil {
			return 0, err
		}
		if msg != nil {
			lastID = msg.MessageID
		}
	}
	return lastID, nil
}

// SendPhoto sends a photo by file ID or URL with an HTML caption.
func (s *BotService) SendPhoto(chatID int64, photo, caption string) (int64, error) {
	url := fmt.Sprintf("%s/sendPhoto", s.baseURL)
	body := map[string]any{
		"chat_id": chatID,
		"photo":   photo,
	}
	if caption != "" {
		body["caption"] = caption
		body["parse_mode"] = "HTML"
	}
	msg, err := s.makeRequest(url, body)
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// SendDocument sends a document by file ID or URL with an HTML caption.
func (s *BotService) SendDocument(chatID int64, document, caption string) (int64, error) {
	url := fmt.Sprintf("%s/sendDocument", s.baseURL)
	body := map[string]any{
		"chat_id":  chatID,
		"document": document,
	}
	if caption != "" {
		body["caption"] = caption
		body["parse_mode"] = "HTML"
	}
	msg, err := s.makeRequest(url, body)
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// SendChatAction sends a chat action such as "typing".
func (s *BotService) SendChatAction(chatID int64, action string) error {
	url := fmt.Sprintf("%s/sendChatAction", s.baseURL)
	body := map[string]any{
		"chat_id": chatID,
		"action":  action,
	}
	_, err := s.makeRequest(url, body)
	return err
}

// GetFileURL resolves a file ID to a downloadable URL via getFile.
func (s *BotService) GetFileURL(fileID string) (string, error) {
	url := fmt.Sprintf("%s/getFile", s.baseURL)
	body := map[string]any{
		"file_id": fileID,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result getFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.OK {
		return "", fmt.Errorf("telegram API error: %s", result.Description)
	}
	return fmt.Sprintf("%s/%s", s.fileBaseURL, result.Result.FilePath), nil
}

// GetBotUsername returns the cached bot username.
func (s *BotService) GetBotUsername() string {
	return s.botUsername
}

// apiResponse represents a Telegram API response carrying a sent message.
type apiResponse struct {
	OK          bool     `json:"ok"`
	Result      *Message `json:"result,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Update represents a Telegram update from getUpdates.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message represents a Telegram message.
type Message struct {
	MessageID      int64       `json:"message_id"`
	From           *User       `json:"from,omitempty"`
	Chat           *Chat       `json:"chat"`
	Date           int64       `json:"date"`
	Text           string      `json:"text,omitempty"`
	Caption        string      `json:"caption,omitempty"`
	Photo          []PhotoSize `json:"photo,omitempty"`
	Document       *Document   `json:"document,omitempty"`
	ReplyToMessage *Message    `json:"reply_to_message,omitempty"`
}

// User represents a Telegram user.
type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Chat represents a Telegram chat.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// PhotoSize represents one size variant of a photo.
type PhotoSize struct {
	FileID   string `json:"file_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize int64  `json:"file_size,omitempty"`
}

// Document represents a general file attachment.
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

type getUpdatesResponse struct {
	OK          bool     `json:"ok"`
	Result      []Update `json:"result"`
	Description string   `json:"description,omitempty"`
}

type getFileResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		FileID   string `json:"file_id"`
		FilePath string `json:"file_path"`
	} `json:"result"`
	Description string `json:"description,omitempty"`
}

type getMeResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		ID        int64  `json:"id"`
		IsBot     bool   `json:"is_bot"`
		FirstName string `json:"first_name"`
		Username  string `json:"username"`
	} `json:"result"`
	Description string `json:"description,omitempty"`
}

func (s *BotService) fetchBotUsername() error {
	url := fmt.Sprintf("%s/getMe", s.baseURL)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result getMeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	s.botUsername = result.Result.Username
	return nil
}

func (s *BotService) makeRequest(url string, body map[string]any) (*Message, error) {
	var req *http.Request
	var err error

	if body != nil {
		jsonBody, merr := json.Marshal(body)
		if merr != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", merr)
		}
		req, err = http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(http.MethodPost, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.OK {
		return nil, fmt.Errorf("telegram API error: %s", result.Description)
	}

	return result.Result, nil
}
