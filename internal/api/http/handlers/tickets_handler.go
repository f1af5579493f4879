package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/echoserve/support-service/internal/api/dto"
	"github.com/echoserve/support-service/internal/service"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

// TicketsHandler manages the ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	agents  *service.AgentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, agents *service.AgentService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, agents: agents}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.tickets.CreateFromEscalation(c.UserContext(), service.EscalationInput{
		CustomerEmail: req.CustomerIdentity,
		SessionID:     req.SessionID,
		UserMessage:   req.UserMessage,
		AIResponse:    req.AIResponse,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"ticket": dto.NewTicketResponse(result.Ticket, result.AssignedAgentName),
	})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.tickets.List(c.UserContext())
	if err != nil {
		return err
	}
	names, err := h.agents.NamesByID(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		name := ""
		if tickets[i].AssignedAgentID != nil {
			name = names[*tickets[i].AssignedAgentID]
		}
		items = append(items, dto.NewTicketResponse(&tickets[i], name))
	}
	return c.JSON(fiber.Map{"tickets": items})
}

// UpdateTicket PATCH /tickets. Accepts either a status change or a
// reassignment, never both in one request.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.TicketID) == "" {
		return apperrors.NewValidationError("ticketId required", nil)
	}

	hasStatus := strings.TrimSpace(req.NewStatus) != ""
	hasAgent := strings.TrimSpace(req.NewAgentID) != ""
	switch {
	case hasStatus && hasAgent:
		return apperrors.NewValidationError("newStatus and newAgentId are mutually exclusive", nil)
	case hasAgent:
		ticket, err := h.tickets.Reassign(c.UserContext(), req.TicketID, req.NewAgentID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"updated":    true,
			"ticketId":   ticket.ID,
			"newAgentId": req.NewAgentID,
		})
	case hasStatus:
		ticket, err := h.tickets.SetStatus(c.UserContext(), req.TicketID, req.NewStatus)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"updated":  true,
			"ticketId": ticket.ID,
			"status":   ticket.Status,
		})
	default:
		return apperrors.NewValidationError("newStatus or newAgentId required", nil)
	}
}
