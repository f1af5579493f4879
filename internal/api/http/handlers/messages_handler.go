package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/echoserve/support-service/internal/api/dto"
	"github.com/echoserve/support-service/internal/service"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

// MessagesHandler records and lists chat transcripts.
type MessagesHandler struct {
	messages *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messages *service.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messages}
}

// CreateMessage POST /messages. The chat widget only checks for success,
// so the stored record is not echoed back.
func (h *MessagesHandler) CreateMessage(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if _, err := h.messages.Record(c.UserContext(), req.SessionID, req.Role, req.Message); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListMessages GET /messages?session_id=.
func (h *MessagesHandler) ListMessages(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return apperrors.NewValidationError("session_id query parameter required", nil)
	}
	msgs, err := h.messages.ListSession(c.UserContext(), sessionID)
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, dto.NewMessageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"messages": items})
}
