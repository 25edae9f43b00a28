// Package retrieval implements the HTTP client for the retrieval sidecar
// that performs similarity search and answer synthesis.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"helpdesk/internal/domain/retrieval"
	"helpdesk/internal/shared/config"
	"helpdesk/internal/shared/logger"
)

type answerRequest struct {
	Question string `json:"question"`
}

type answerResponse struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}

type Client struct {
	baseURL    string
	threshold  float64
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(cfg *config.RetrievalConfig, logger logger.Interface) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		threshold:  cfg.ConfidenceThreshold,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Answer asks the sidecar for a verdict on the question. The confidence
// threshold is applied here so callers only see the final judgment.
func (c *Client) Answer(ctx context.Context, questionText string) (*retrieval.Verdict, error) {
	body, err := json.Marshal(answerRequest{Question: questionText})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal retrieval request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/answer", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build retrieval request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, retrieval.ErrTimeout
		}
		return nil, fmt.Errorf("retrieval request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retrieval returned status %d", resp.StatusCode)
	}

	var parsed answerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode retrieval response: %w", err)
	}

	verdict := &retrieval.Verdict{
		Confident:  parsed.Answer != "" && parsed.Confidence >= c.threshold,
		AnswerText: parsed.Answer,
		Confidence: parsed.Confidence,
	}

	c.logger.Debugw("retrieval verdict",
		"confident", verdict.Confident, "confidence", parsed.Confidence)

	return verdict, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
