package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/echoserve/support-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Tickets   *handlers.TicketsHandler
	Agents    *handlers.AgentsHandler
	Messages  *handlers.MessagesHandler
	Customers *handlers.CustomersHandler
	Emails    *handlers.EmailsHandler
	Analytics *handlers.AnalyticsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/tickets", cfg.Tickets.CreateTicket)
	app.Get("/tickets", cfg.Tickets.ListTickets)
	app.Patch("/tickets", cfg.Tickets.UpdateTicket)

	app.Get("/agents", cfg.Agents.ListAgents)

	app.Post("/messages", cfg.Messages.CreateMessage)
	app.Get("/messages", cfg.Messages.ListMessages)

	app.Get("/customers", cfg.Customers.ListCustomers)
	app.Get("/customers/timeline", cfg.Customers.Timeline)
	app.Get("/customers/insights", cfg.Customers.Insights)

	app.Post("/emails/inbound", cfg.Emails.InboundEmail)
	app.Get("/emails", cfg.Emails.ListEmails)

	app.Get("/analytics/overview", cfg.Analytics.Overview)
}
