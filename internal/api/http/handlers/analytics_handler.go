package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/echoserve/support-service/internal/api/dto"
	"github.com/echoserve/support-service/internal/service"
)

// AnalyticsHandler serves the recomputed support overview.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Overview GET /analytics/overview.
func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.analytics.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAnalyticsOverviewResponse(overview))
}
