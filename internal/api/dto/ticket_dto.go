package dto

import (
	"time"

	"github.com/echoserve/support-service/internal/domain"
)

// CreateTicketRequest is the escalation payload.
type CreateTicketRequest struct {
	CustomerIdentity string `json:"customerIdentity"`
	SessionID        string `json:"sessionId"`
	UserMessage      string `json:"userMessage"`
	AIResponse       string `json:"aiResponse"`
}

// UpdateTicketRequest carries either a status change or a reassignment;
// the two kinds are mutually exclusive per request.
type UpdateTicketRequest struct {
	TicketID   string `json:"ticketId"`
	NewStatus  string `json:"newStatus,omitempty"`
	NewAgentID string `json:"newAgentId,omitempty"`
}

// TicketResponse is the wire shape of a ticket.
type TicketResponse struct {
	TicketID          string              `json:"ticketId"`
	CustomerIdentity  string              `json:"customerIdentity"`
	SessionID         string              `json:"sessionId"`
	UserMessage       string              `json:"userMessage"`
	AIResponse        string              `json:"aiResponse"`
	Status            domain.TicketStatus `json:"status"`
	AssignedAgentID   *string             `json:"assignedAgentId"`
	AssignedAgentName string              `json:"assignedAgentName,omitempty"`
	Summary           string              `json:"summary"`
	Tags              []string            `json:"tags"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// NewTicketResponse maps a domain ticket to its wire shape.
func NewTicketResponse(ticket *domain.Ticket, assignedAgentName string) TicketResponse {
	tags := ticket.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketResponse{
		TicketID:          ticket.ID,
		CustomerIdentity:  ticket.CustomerEmail,
		SessionID:         ticket.SessionID,
		UserMessage:       ticket.UserMessage,
		AIResponse:        ticket.AIResponse,
		Status:            ticket.Status,
		AssignedAgentID:   ticket.AssignedAgentID,
		AssignedAgentName: assignedAgentName,
		Summary:           ticket.Summary,
		Tags:              tags,
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
	}
}
