package dto

import "github.com/echoserve/support-service/internal/service"

// TagCountResponse is one tag frequency entry.
type TagCountResponse struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// AgentStatsResponse is the per-agent ticket distribution.
type AgentStatsResponse struct {
	Agent  string `json:"agent"`
	Open   int    `json:"open"`
	Closed int    `json:"closed"`
	Total  int    `json:"total"`
}

// AgentCountResponse pairs an agent with a count.
type AgentCountResponse struct {
	Agent string `json:"agent"`
	Count int    `json:"count"`
}

// RoutingAuditResponse partitions tickets by assignment origin.
type RoutingAuditResponse struct {
	AutoAssigned        int                  `json:"autoAssigned"`
	Unassigned          int                  `json:"unassigned"`
	ManuallyReassigned  int                  `json:"manuallyReassigned"`
	AutoAssignedByAgent []AgentCountResponse `json:"autoAssignedByAgent"`
}

// AnalyticsOverviewResponse is the full rollup.
type AnalyticsOverviewResponse struct {
	TotalTickets  int                  `json:"totalTickets"`
	OpenTickets   int                  `json:"openTickets"`
	ClosedTickets int                  `json:"closedTickets"`
	TopTags       []TagCountResponse   `json:"topTags"`
	TopEmailTags  []TagCountResponse   `json:"topEmailTags"`
	AgentStats    []AgentStatsResponse `json:"agentStats"`
	Routing       RoutingAuditResponse `json:"routing"`
}

// NewAnalyticsOverviewResponse maps the service rollup to its wire shape.
func NewAnalyticsOverviewResponse(overview *service.Overview) AnalyticsOverviewResponse {
	resp := AnalyticsOverviewResponse{
		TotalTickets:  overview.TotalTickets,
		OpenTickets:   overview.OpenTickets,
		ClosedTickets: overview.ClosedTickets,
		TopTags:       tagCounts(overview.TopTags),
		TopEmailTags:  tagCounts(overview.TopEmailTags),
		Routing: RoutingAuditResponse{
			AutoAssigned:        overview.Routing.AutoAssigned,
			Unassigned:          overview.Routing.Unassigned,
			ManuallyReassigned:  overview.Routing.ManuallyReassigned,
			AutoAssignedByAgent: agentCounts(overview.Routing.AutoAssignedByAgent),
		},
	}
	for _, stats := range overview.AgentStats {
		resp.AgentStats = append(resp.AgentStats, AgentStatsResponse{
			Agent:  stats.Agent,
			Open:   stats.Open,
			Closed: stats.Closed,
			Total:  stats.Total,
		})
	}
	return resp
}

func tagCounts(counts []service.TagCount) []TagCountResponse {
	out := make([]TagCountResponse, 0, len(counts))
	for _, tc := range counts {
		out = append(out, TagCountResponse{Tag: tc.Tag, Count: tc.Count})
	}
	return out
}

func agentCounts(counts []service.AgentCount) []AgentCountResponse {
	out := make([]AgentCountResponse, 0, len(counts))
	for _, ac := range counts {
		out = append(out, AgentCountResponse{Agent: ac.Agent, Count: ac.Count})
	}
	return out
}
