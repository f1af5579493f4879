package dto

import (
	"time"

	"github.com/echoserve/support-service/internal/domain"
)

// CustomerResponse is one row of the customer directory.
type CustomerResponse struct {
	Email           string    `json:"email"`
	TotalMessages   int       `json:"totalMessages"`
	LastMessageDate time.Time `json:"lastMessageDate"`
}

// TimelineEntryResponse is one cross-channel timeline entry.
type TimelineEntryResponse struct {
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Role      domain.Role    `json:"role"`
	Channel   domain.Channel `json:"channel"`
}

// InsightsResponse is the rolling per-customer classification.
type InsightsResponse struct {
	Summary   string           `json:"summary"`
	Intents   []string         `json:"intents"`
	Sentiment domain.Sentiment `json:"sentiment"`
}

// NewTimelineResponse maps timeline entries to their wire shape.
func NewTimelineResponse(entries []domain.TimelineEntry) []TimelineEntryResponse {
	out := make([]TimelineEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, TimelineEntryResponse{
			Content:   entry.Content,
			CreatedAt: entry.CreatedAt,
			Role:      entry.Role,
			Channel:   entry.Channel,
		})
	}
	return out
}

// NewCustomersResponse maps customer summaries to their wire shape.
func NewCustomersResponse(customers []domain.CustomerSummary) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		out = append(out, CustomerResponse{
			Email:           customer.Email,
			TotalMessages:   customer.TotalMessages,
			LastMessageDate: customer.LastMessageDate,
		})
	}
	return out
}
