package dto

import (
	"time"

	"github.com/echoserve/support-service/internal/domain"
)

// CreateMessageRequest appends a chat message to a session.
type CreateMessageRequest struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Message   string `json:"message"`
}

// MessageResponse is one chat transcript entry.
type MessageResponse struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Role      domain.Role `json:"role"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewMessageResponse maps a chat message to its wire shape.
func NewMessageResponse(msg *domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		SessionID: msg.SessionID,
		Role:      msg.Role,
		Message:   msg.Body,
		CreatedAt: msg.CreatedAt,
	}
}
