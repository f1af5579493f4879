package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/echoserve/support-service/internal/api/dto"
	"github.com/echoserve/support-service/internal/service"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

// CustomersHandler serves the customer directory, cross-channel timelines
// and rolling insights.
type CustomersHandler struct {
	timeline *service.TimelineService
	insights *service.InsightsService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(timeline *service.TimelineService, insights *service.InsightsService) *CustomersHandler {
	return &CustomersHandler{timeline: timeline, insights: insights}
}

// ListCustomers GET /customers.
func (h *CustomersHandler) ListCustomers(c *fiber.Ctx) error {
	customers, err := h.timeline.ListCustomers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"customers": dto.NewCustomersResponse(customers)})
}

// Timeline GET /customers/timeline?email=.
func (h *CustomersHandler) Timeline(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return apperrors.NewValidationError("email query parameter required", nil)
	}
	entries, err := h.timeline.Merge(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"timeline": dto.NewTimelineResponse(entries)})
}

// Insights GET /customers/insights?email=.
func (h *CustomersHandler) Insights(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return apperrors.NewValidationError("email query parameter required", nil)
	}
	insights, err := h.insights.CustomerInsights(c.UserContext(), email)
	if err != nil {
		return err
	}
	intents := insights.Intents
	if intents == nil {
		intents = []string{}
	}
	return c.JSON(dto.InsightsResponse{
		Summary:   insights.Summary,
		Intents:   intents,
		Sentiment: insights.Sentiment,
	})
}
