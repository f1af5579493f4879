package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/echoserve/support-service/internal/api/dto"
	"github.com/echoserve/support-service/internal/service"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

// EmailsHandler receives inbound emails and lists stored ones.
type EmailsHandler struct {
	emails *service.EmailService
}

// NewEmailsHandler constructs handler.
func NewEmailsHandler(emails *service.EmailService) *EmailsHandler {
	return &EmailsHandler{emails: emails}
}

// InboundEmail POST /emails/inbound.
func (h *EmailsHandler) InboundEmail(c *fiber.Ctx) error {
	var req dto.InboundEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.emails.Ingest(c.UserContext(), service.InboundEmail{
		From:          req.From,
		Subject:       req.Subject,
		Body:          req.Body,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"email": dto.NewEmailResponse(msg),
	})
}

// ListEmails GET /emails.
func (h *EmailsHandler) ListEmails(c *fiber.Ctx) error {
	msgs, err := h.emails.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.EmailResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, dto.NewEmailResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"emails": items})
}
