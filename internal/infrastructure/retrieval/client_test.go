package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainretrieval "helpdesk/internal/domain/retrieval"
	"helpdesk/internal/shared/config"
	"helpdesk/internal/shared/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                   {}
func (nopLogger) Info(msg string, args ...any)                    {}
func (nopLogger) Warn(msg string, args ...any)                    {}
func (nopLogger) Error(msg string, args ...any)                   {}
func (nopLogger) Fatal(msg string, args ...any)                   {}
func (nopLogger) With(args ...any) logger.Interface               { return nopLogger{} }
func (nopLogger) Named(name string) logger.Interface              { return nopLogger{} }
func (nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

func newTestClient(t *testing.T, handler http.HandlerFunc, threshold float64, timeoutSeconds int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(&config.RetrievalConfig{
		BaseURL:             server.URL,
		ConfidenceThreshold: threshold,
		TimeoutSeconds:      timeoutSeconds,
	}, nopLogger{})
}

func TestClient_Answer_Confident(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/answer", r.URL.Path)

		var req answerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "How do I reset my password?", req.Question)

		json.NewEncoder(w).Encode(answerResponse{Answer: "Use the reset link.", Confidence: 0.91})
	}, 0.6, 5)

	verdict, err := client.Answer(context.Background(), "How do I reset my password?")

	require.NoError(t, err)
	assert.True(t, verdict.Confident)
	assert.Equal(t, "Use the reset link.", verdict.AnswerText)
	assert.InDelta(t, 0.91, verdict.Confidence, 0.001)
}

func TestClient_Answer_BelowThreshold(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(answerResponse{Answer: "maybe this", Confidence: 0.12})
	}, 0.6, 5)

	verdict, err := client.Answer(context.Background(), "Why was I charged twice?")

	require.NoError(t, err)
	assert.False(t, verdict.Confident)
}

func TestClient_Answer_EmptyAnswerNeverConfident(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(answerResponse{Answer: "", Confidence: 0.99})
	}, 0.6, 5)

	verdict, err := client.Answer(context.Background(), "anything")

	require.NoError(t, err)
	assert.False(t, verdict.Confident)
}

func TestClient_Answer_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}, 0.6, 5)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Answer(ctx, "slow question")
	assert.ErrorIs(t, err, domainretrieval.ErrTimeout)
}

func TestClient_Answer_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 0.6, 5)

	_, err := client.Answer(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domainretrieval.ErrTimeout)
}
