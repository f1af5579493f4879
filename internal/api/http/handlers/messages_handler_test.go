package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/echoserve/support-service/internal/domain"
	"github.com/echoserve/support-service/internal/service"
)

type memoryChatRepo struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
}

func (r *memoryChatRepo) Create(ctx context.Context, msg *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *memoryChatRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ChatMessage
	for _, msg := range r.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (r *memoryChatRepo) ListBySessions(ctx context.Context, sessionIDs []string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, id := range sessionIDs {
		msgs, _ := r.ListBySession(context.Background(), id)
		out = append(out, msgs...)
	}
	return out, nil
}

func TestCreateMessage_ReturnsSuccessEnvelope(t *testing.T) {
	repo := &memoryChatRepo{}
	handler := NewMessagesHandler(service.NewMessageService(repo, nil, zap.NewNop()))

	app := fiber.New()
	app.Post("/messages", handler.CreateMessage)

	body := `{"session_id": "sess-1", "role": "bot", "message": "how can I help?"}`
	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, map[string]any{"success": true}, parsed)

	require.Len(t, repo.messages, 1)
	assert.Equal(t, domain.RoleAI, repo.messages[0].Role)
}
