package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/echoserve/support-service/internal/service"
)

// AgentsHandler exposes the agent roster.
type AgentsHandler struct {
	agents *service.AgentService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(agents *service.AgentService) *AgentsHandler {
	return &AgentsHandler{agents: agents}
}

// ListAgents GET /agents.
func (h *AgentsHandler) ListAgents(c *fiber.Ctx) error {
	agents, err := h.agents.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(agents))
	for _, agent := range agents {
		items = append(items, fiber.Map{
			"id":           agent.ID,
			"name":         agent.Name,
			"tags":         agent.Tags,
			"online":       agent.Online,
			"current_load": agent.CurrentLoad,
		})
	}
	return c.JSON(fiber.Map{"agents": items})
}
