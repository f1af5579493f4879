package service

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/echoserve/support-service/internal/config"
	"github.com/echoserve/support-service/internal/domain"
	"github.com/echoserve/support-service/internal/events"
	"github.com/echoserve/support-service/internal/observability"
	"github.com/echoserve/support-service/internal/repository"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

// RouterService selects agents for tickets and keeps per-agent load
// counters consistent under concurrent mutation. All load writes go
// through conditional updates retried against fresh state.
type RouterService struct {
	tickets    repository.TicketRepository
	agents     repository.AgentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.RoutingConfig
}

// RouterDependencies bundles collaborators.
type RouterDependencies struct {
	TicketRepo repository.TicketRepository
	AgentRepo  repository.AgentRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Config     config.RoutingConfig
}

// NewRouterService creates the service.
func NewRouterService(deps RouterDependencies) *RouterService {
	cfg := deps.Config
	if cfg.MaxAssignAttempts <= 0 {
		cfg.MaxAssignAttempts = 3
	}
	if cfg.MaxSwapAttempts <= 0 {
		cfg.MaxSwapAttempts = 5
	}
	return &RouterService{
		tickets:    deps.TicketRepo,
		agents:     deps.AgentRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		cfg:        cfg,
	}
}

// selectCandidate picks the best agent for the given tags: online agents
// with a non-empty tag intersection, lowest current load first, agent ID
// as the deterministic tie-break.
func selectCandidate(agents []domain.Agent, tags []string) *domain.Agent {
	candidates := make([]domain.Agent, 0, len(agents))
	for _, agent := range agents {
		if agent.Online && agent.CanHandle(tags) {
			candidates = append(candidates, agent)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CurrentLoad != candidates[j].CurrentLoad {
			return candidates[i].CurrentLoad < candidates[j].CurrentLoad
		}
		return candidates[i].ID < candidates[j].ID
	})
	return &candidates[0]
}

// AutoAssign routes a freshly created ticket by its tags. A roster with no
// qualifying agent leaves the ticket unassigned, which is not an error.
// Exhausting the retry budget surfaces a routing conflict with the ticket
// still unassigned.
func (s *RouterService) AutoAssign(ctx context.Context, ticket *domain.Ticket) (*domain.Agent, error) {
	if len(ticket.Tags) == 0 {
		s.metrics.RecordAssignment("unassigned")
		return nil, nil
	}

	for attempt := 0; attempt < s.cfg.MaxAssignAttempts; attempt++ {
		agents, err := s.agents.ListOnline(ctx)
		if err != nil {
			return nil, apperrors.NewStoreError(err)
		}
		candidate := selectCandidate(agents, ticket.Tags)
		if candidate == nil {
			s.metrics.RecordAssignment("unassigned")
			return nil, nil
		}

		swapped, err := s.agents.CompareAndSwapLoad(ctx, candidate.ID, candidate.CurrentLoad, candidate.CurrentLoad+1)
		if err != nil {
			return nil, apperrors.NewStoreError(err)
		}
		if !swapped {
			s.metrics.RecordRoutingConflict()
			continue
		}

		assigned, err := s.tickets.CompareAndSwapAssignee(ctx, ticket.ID, ticket.AssignedAgentID, &candidate.ID, domain.AssignmentOriginAuto)
		if err != nil {
			return nil, apperrors.NewStoreError(err)
		}
		if !assigned {
			// someone else assigned the ticket first; undo the increment
			if err := s.adjustLoad(ctx, candidate.ID, -1); err != nil {
				s.logger.Error("load rollback failed", zap.String("agent_id", candidate.ID), zap.Error(err))
			}
			s.metrics.RecordAssignment("unassigned")
			return nil, nil
		}

		ticket.AssignedAgentID = &candidate.ID
		ticket.AssignmentOrigin = domain.AssignmentOriginAuto
		candidate.CurrentLoad++
		s.metrics.RecordAssignment("assigned")
		s.publishAssigned(ctx, ticket.ID, &candidate.ID, candidate.Name, true)
		return candidate, nil
	}

	s.metrics.RecordAssignment("conflict")
	return nil, apperrors.NewRoutingConflict("", nil)
}

// Reassign moves a ticket to the given agent and transfers load between
// the previous and new assignee. Exactly one of two concurrent
// reassignments of the same ticket wins.
func (s *RouterService) Reassign(ctx context.Context, ticketID, newAgentID string) (*domain.Ticket, error) {
	agent, err := s.agents.GetByID(ctx, newAgentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": newAgentID})
		}
		return nil, apperrors.NewStoreError(err)
	}

	for attempt := 0; attempt < s.cfg.MaxAssignAttempts; attempt++ {
		ticket, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return nil, apperrors.NewStoreError(err)
		}

		prev := ticket.AssignedAgentID
		if prev != nil && *prev == agent.ID {
			return ticket, nil
		}

		// The new agent's load is claimed before the assignee is published,
		// so a concurrent reassignment away from this agent always finds
		// the increment it has to transfer.
		if err := s.adjustLoad(ctx, agent.ID, +1); err != nil {
			return nil, err
		}

		swapped, err := s.tickets.CompareAndSwapAssignee(ctx, ticket.ID, prev, &agent.ID, domain.AssignmentOriginManual)
		if err != nil {
			return nil, apperrors.NewStoreError(err)
		}
		if !swapped {
			if err := s.adjustLoad(ctx, agent.ID, -1); err != nil {
				s.logger.Error("load rollback failed", zap.String("agent_id", agent.ID), zap.Error(err))
			}
			s.metrics.RecordRoutingConflict()
			continue
		}

		if prev != nil {
			if err := s.adjustLoad(ctx, *prev, -1); err != nil {
				return nil, err
			}
		}
		ticket.AssignedAgentID = &agent.ID
		ticket.AssignmentOrigin = domain.AssignmentOriginManual
		s.publishAssigned(ctx, ticket.ID, &agent.ID, agent.Name, false)
		return ticket, nil
	}

	return nil, apperrors.NewRoutingConflict(agent.ID, nil)
}

// TransferLoad atomically moves one unit of load between agents. Either
// side may be nil (assign from unassigned, or drop an assignment).
// A transfer between identical agents is a no-op.
func (s *RouterService) TransferLoad(ctx context.Context, fromAgentID, toAgentID *string) error {
	if equalAgentRef(fromAgentID, toAgentID) {
		return nil
	}
	if fromAgentID != nil {
		if err := s.adjustLoad(ctx, *fromAgentID, -1); err != nil {
			return err
		}
	}
	if toAgentID != nil {
		if err := s.adjustLoad(ctx, *toAgentID, +1); err != nil {
			return err
		}
	}
	return nil
}

// adjustLoad applies a load delta through the per-agent conditional update,
// retrying against fresh state on contention. Decrements floor at zero.
func (s *RouterService) adjustLoad(ctx context.Context, agentID string, delta int) error {
	for attempt := 0; attempt < s.cfg.MaxSwapAttempts; attempt++ {
		agent, err := s.agents.GetByID(ctx, agentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
			}
			return apperrors.NewStoreError(err)
		}
		next := agent.CurrentLoad + delta
		if next < 0 {
			next = 0
		}
		if next == agent.CurrentLoad {
			return nil
		}
		swapped, err := s.agents.CompareAndSwapLoad(ctx, agentID, agent.CurrentLoad, next)
		if err != nil {
			return apperrors.NewStoreError(err)
		}
		if swapped {
			return nil
		}
		s.metrics.RecordRoutingConflict()
	}
	return apperrors.NewRoutingConflict(agentID, nil)
}

func (s *RouterService) publishAssigned(ctx context.Context, ticketID string, agentID *string, agentName string, auto bool) {
	events.Dispatch(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticketID,
		Payload: events.TicketAssignedPayload{
			AgentID:   agentID,
			AgentName: agentName,
			Auto:      auto,
		},
	})
}

func equalAgentRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
