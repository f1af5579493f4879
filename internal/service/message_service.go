package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/echoserve/support-service/internal/domain"
	"github.com/echoserve/support-service/internal/events"
	"github.com/echoserve/support-service/internal/repository"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

// MessageService records and lists chat transcript messages. Raw channel
// role strings are normalized at this boundary so downstream logic never
// sees "bot".
type MessageService struct {
	chat       repository.ChatMessageRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewMessageService constructs the service.
func NewMessageService(chat repository.ChatMessageRepository, dispatcher events.Dispatcher, logger *zap.Logger) *MessageService {
	return &MessageService{chat: chat, dispatcher: dispatcher, logger: logger}
}

// Record appends one chat message to a session transcript.
func (s *MessageService) Record(ctx context.Context, sessionID, rawRole, body string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(rawRole) == "" || strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("session_id, role, message required", nil)
	}

	msg := &domain.ChatMessage{
		SessionID: strings.TrimSpace(sessionID),
		Role:      domain.NormalizeChatRole(strings.TrimSpace(rawRole)),
		Body:      body,
	}
	if err := s.chat.Create(ctx, msg); err != nil {
		return nil, apperrors.NewStoreError(err)
	}

	events.Dispatch(ctx, s.dispatcher, events.Event{
		Type: events.EventChatMessageRecorded,
		Payload: events.ChatMessageRecordedPayload{
			SessionID: msg.SessionID,
			Role:      msg.Role,
		},
	})
	return msg, nil
}

// ListSession returns a session transcript in chronological order.
func (s *MessageService) ListSession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.NewValidationError("session_id required", nil)
	}
	messages, err := s.chat.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return messages, nil
}
