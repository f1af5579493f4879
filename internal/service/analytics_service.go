package service

import (
	"context"
	"sort"

	"github.com/echoserve/support-service/internal/domain"
	"github.com/echoserve/support-service/internal/repository"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

const topTagLimit = 10

// AnalyticsService derives rollups over the current ticket and email
// collections. Everything is recomputed on demand from stored state so the
// numbers cannot drift from the routing engine's own counters.
type AnalyticsService struct {
	tickets repository.TicketRepository
	agents  repository.AgentRepository
	emails  repository.EmailMessageRepository
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(tickets repository.TicketRepository, agents repository.AgentRepository, emails repository.EmailMessageRepository) *AnalyticsService {
	return &AnalyticsService{tickets: tickets, agents: agents, emails: emails}
}

// TagCount is one tag with its frequency.
type TagCount struct {
	Tag   string
	Count int
}

// AgentStats is the per-agent ticket distribution.
type AgentStats struct {
	Agent  string
	Open   int
	Closed int
	Total  int
}

// RoutingAudit partitions tickets by how they got their assignment,
// keyed on the origin recorded with each assignment write.
type RoutingAudit struct {
	AutoAssigned        int
	Unassigned          int
	ManuallyReassigned  int
	AutoAssignedByAgent []AgentCount
}

// AgentCount pairs an agent name with a ticket count.
type AgentCount struct {
	Agent string
	Count int
}

// Overview is the full analytics rollup.
type Overview struct {
	TotalTickets  int
	OpenTickets   int
	ClosedTickets int
	TopTags       []TagCount
	TopEmailTags  []TagCount
	AgentStats    []AgentStats
	Routing       RoutingAudit
}

// Overview recomputes all rollups from current state.
func (s *AnalyticsService) Overview(ctx context.Context) (*Overview, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	emails, err := s.emails.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}

	agentNames := make(map[string]string, len(agents))
	for _, agent := range agents {
		agentNames[agent.ID] = agent.Name
	}

	overview := &Overview{TotalTickets: len(tickets)}
	ticketTags := newTagCounter()
	emailTags := newTagCounter()
	statsByAgent := make(map[string]*AgentStats)
	autoByAgent := make(map[string]int)

	for _, ticket := range tickets {
		if ticket.Status == domain.TicketStatusClosed {
			overview.ClosedTickets++
		} else {
			overview.OpenTickets++
		}
		for _, tag := range ticket.Tags {
			ticketTags.add(tag)
		}

		name := "Unassigned"
		if ticket.AssignedAgentID != nil {
			if resolved, ok := agentNames[*ticket.AssignedAgentID]; ok {
				name = resolved
			} else {
				name = *ticket.AssignedAgentID
			}
		}
		stats, ok := statsByAgent[name]
		if !ok {
			stats = &AgentStats{Agent: name}
			statsByAgent[name] = stats
		}
		stats.Total++
		if ticket.Status == domain.TicketStatusClosed {
			stats.Closed++
		} else {
			stats.Open++
		}

		switch {
		case ticket.AssignedAgentID == nil:
			overview.Routing.Unassigned++
		case ticket.AssignmentOrigin == domain.AssignmentOriginManual:
			overview.Routing.ManuallyReassigned++
		default:
			overview.Routing.AutoAssigned++
			autoByAgent[name]++
		}
	}

	for _, email := range emails {
		for _, tag := range email.Tags {
			emailTags.add(tag)
		}
	}

	overview.TopTags = ticketTags.top(topTagLimit)
	overview.TopEmailTags = emailTags.top(topTagLimit)
	overview.AgentStats = sortedAgentStats(statsByAgent)
	overview.Routing.AutoAssignedByAgent = sortedAgentCounts(autoByAgent)
	return overview, nil
}

// tagCounter counts tag frequency while remembering first-seen order,
// which breaks frequency ties.
type tagCounter struct {
	counts map[string]int
	order  []string
}

func newTagCounter() *tagCounter {
	return &tagCounter{counts: make(map[string]int)}
}

func (t *tagCounter) add(tag string) {
	if _, ok := t.counts[tag]; !ok {
		t.order = append(t.order, tag)
	}
	t.counts[tag]++
}

func (t *tagCounter) top(limit int) []TagCount {
	firstSeen := make(map[string]int, len(t.order))
	for i, tag := range t.order {
		firstSeen[tag] = i
	}
	out := make([]TagCount, 0, len(t.order))
	for _, tag := range t.order {
		out = append(out, TagCount{Tag: tag, Count: t.counts[tag]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Tag] < firstSeen[out[j].Tag]
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sortedAgentStats(byAgent map[string]*AgentStats) []AgentStats {
	out := make([]AgentStats, 0, len(byAgent))
	for _, stats := range byAgent {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Agent < out[j].Agent
	})
	return out
}

func sortedAgentCounts(byAgent map[string]int) []AgentCount {
	out := make([]AgentCount, 0, len(byAgent))
	for agent, count := range byAgent {
		out = append(out, AgentCount{Agent: agent, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Agent < out[j].Agent
	})
	return out
}
