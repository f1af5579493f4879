package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/echoserve/support-service/internal/config"
	"github.com/echoserve/support-service/internal/domain"
	"github.com/echoserve/support-service/internal/events"
	"github.com/echoserve/support-service/internal/observability"
	"github.com/echoserve/support-service/internal/repository"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle: creation from an
// escalated conversation, status changes and reassignment.
type TicketService struct {
	tickets    repository.TicketRepository
	agents     repository.AgentRepository
	chat       repository.ChatMessageRepository
	classifier Classifier
	router     *RouterService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	classifyIn time.Duration
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	AgentRepo  repository.AgentRepository
	ChatRepo   repository.ChatMessageRepository
	Classifier Classifier
	Router     *RouterService
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Classify   config.ClassifierConfig
}

// EscalationInput describes a conversation escalating into a ticket.
type EscalationInput struct {
	CustomerEmail string
	SessionID     string
	UserMessage   string
	AIResponse    string
}

// CreationResult carries the created ticket plus the resolved name of the
// auto-assigned agent, when any.
type CreationResult struct {
	Ticket            *domain.Ticket
	AssignedAgentName string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		agents:     deps.AgentRepo,
		chat:       deps.ChatRepo,
		classifier: deps.Classifier,
		router:     deps.Router,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		classifyIn: deps.Classify.Timeout(),
	}
}

// CreateFromEscalation persists a new open ticket, then runs the
// post-creation pipeline: classification and auto-routing. Each pipeline
// step is individually best-effort; its failure degrades the ticket
// (no summary, no assignment) without failing the creation.
func (s *TicketService) CreateFromEscalation(ctx context.Context, input EscalationInput) (*CreationResult, error) {
	missing := missingFields(input)
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	ticket := &domain.Ticket{
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		SessionID:     strings.TrimSpace(input.SessionID),
		UserMessage:   input.UserMessage,
		AIResponse:    input.AIResponse,
		Status:        domain.TicketStatusOpen,
		Summary:       "",
		Tags:          []string{},
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			CustomerEmail: ticket.CustomerEmail,
			SessionID:     ticket.SessionID,
		},
	})

	s.classifyTicket(ctx, ticket)

	assignedName := ""
	if agent := s.routeTicket(ctx, ticket); agent != nil {
		assignedName = agent.Name
	}

	return &CreationResult{Ticket: ticket, AssignedAgentName: assignedName}, nil
}

// classifyTicket attaches summary and tags from the session transcript.
// Classifier failure leaves the ticket usable with empty classification.
func (s *TicketService) classifyTicket(ctx context.Context, ticket *domain.Ticket) {
	classifyCtx, cancel := context.WithTimeout(ctx, s.classifyIn)
	defer cancel()

	utterances := s.sessionUtterances(classifyCtx, ticket)
	result, err := s.classifier.SummarizeConversation(classifyCtx, utterances)
	if err != nil {
		s.metrics.RecordClassifierFailure()
		s.logger.Warn("ticket classification skipped",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
		return
	}

	if err := s.tickets.UpdateClassification(ctx, ticket.ID, result.Summary, result.Tags); err != nil {
		s.logger.Error("classification persist failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
		return
	}
	ticket.Summary = result.Summary
	ticket.Tags = result.Tags
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketClassified,
		TicketID: ticket.ID,
		Payload: events.TicketClassifiedPayload{
			Summary: result.Summary,
			Tags:    result.Tags,
		},
	})
}

func (s *TicketService) sessionUtterances(ctx context.Context, ticket *domain.Ticket) []domain.Utterance {
	history, err := s.chat.ListBySession(ctx, ticket.SessionID)
	if err != nil {
		s.logger.Warn("session transcript unavailable",
			zap.String("session_id", ticket.SessionID),
			zap.Error(err))
		history = nil
	}
	utterances := make([]domain.Utterance, 0, len(history)+2)
	for _, msg := range history {
		utterances = append(utterances, domain.Utterance{Role: msg.Role, Text: msg.Body})
	}
	if len(utterances) == 0 {
		// the escalating exchange is the minimum transcript
		utterances = append(utterances,
			domain.Utterance{Role: domain.RoleUser, Text: ticket.UserMessage},
			domain.Utterance{Role: domain.RoleAI, Text: ticket.AIResponse},
		)
	}
	return utterances
}

// routeTicket runs best-effort auto-assignment. A routing conflict is
// logged and leaves the ticket unassigned rather than failing creation.
func (s *TicketService) routeTicket(ctx context.Context, ticket *domain.Ticket) *domain.Agent {
	agent, err := s.router.AutoAssign(ctx, ticket)
	if err != nil {
		if apperrors.IsRoutingConflict(err) {
			s.logger.Warn("auto-routing contention, ticket left unassigned",
				zap.String("ticket_id", ticket.ID))
		} else {
			s.logger.Error("auto-routing failed",
				zap.String("ticket_id", ticket.ID),
				zap.Error(err))
		}
		return nil
	}
	return agent
}

// SetStatus moves a ticket between the open and closed states. Any other
// value is rejected. Setting the current status again is a no-op success.
// Closing does not change the assigned agent's load counter: the counter
// tracks total routed work, not only active tickets.
func (s *TicketService) SetStatus(ctx context.Context, ticketID, rawStatus string) (*domain.Ticket, error) {
	status := domain.TicketStatus(rawStatus)
	if !status.IsValid() {
		return nil, apperrors.NewInvalidTransition(rawStatus)
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == status {
		return ticket, nil
	}

	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, status); err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	ticket.Status = status
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return ticket, nil
}

// Reassign delegates to the router's load-transfer primitive.
func (s *TicketService) Reassign(ctx context.Context, ticketID, newAgentID string) (*domain.Ticket, error) {
	return s.router.Reassign(ctx, ticketID, newAgentID)
}

// List returns all tickets, newest first.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return tickets, nil
}

// Get fetches one ticket by ID.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.getTicket(ctx, ticketID)
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.NewStoreError(err)
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	events.Dispatch(ctx, s.dispatcher, event)
}

func missingFields(input EscalationInput) []string {
	var missing []string
	if strings.TrimSpace(input.CustomerEmail) == "" {
		missing = append(missing, "customerIdentity")
	}
	if strings.TrimSpace(input.SessionID) == "" {
		missing = append(missing, "sessionId")
	}
	if strings.TrimSpace(input.UserMessage) == "" {
		missing = append(missing, "userMessage")
	}
	if strings.TrimSpace(input.AIResponse) == "" {
		missing = append(missing, "aiResponse")
	}
	return missing
}
