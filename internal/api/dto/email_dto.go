package dto

import (
	"time"

	"github.com/echoserve/support-service/internal/domain"
)

// InboundEmailRequest is the inbound email webhook payload.
type InboundEmailRequest struct {
	From          string `json:"from"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	CustomerEmail string `json:"customerEmail"`
}

// EmailResponse is one stored email interaction.
type EmailResponse struct {
	ID            string    `json:"id"`
	From          string    `json:"from"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	AIReply       string    `json:"ai_reply"`
	Tags          []string  `json:"tags"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewEmailResponse maps an email message to its wire shape.
func NewEmailResponse(msg *domain.EmailMessage) EmailResponse {
	tags := msg.Tags
	if tags == nil {
		tags = []string{}
	}
	return EmailResponse{
		ID:            msg.ID,
		From:          msg.FromAddress,
		Subject:       msg.Subject,
		Body:          msg.Body,
		AIReply:       msg.AIReply,
		Tags:          tags,
		CustomerEmail: msg.CustomerEmail,
		CreatedAt:     msg.CreatedAt,
	}
}
