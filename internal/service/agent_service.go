package service

import (
	"context"

	"github.com/echoserve/support-service/internal/domain"
	"github.com/echoserve/support-service/internal/repository"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

// AgentService exposes the agent roster.
type AgentService struct {
	agents repository.AgentRepository
}

// NewAgentService constructs the service.
func NewAgentService(agents repository.AgentRepository) *AgentService {
	return &AgentService{agents: agents}
}

// List returns the full roster.
func (s *AgentService) List(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return agents, nil
}

// NamesByID returns an ID-to-name lookup for response assembly.
func (s *AgentService) NamesByID(ctx context.Context) (map[string]string, error) {
	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	names := make(map[string]string, len(agents))
	for _, agent := range agents {
		names[agent.ID] = agent.Name
	}
	return names, nil
}
