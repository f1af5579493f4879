package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/echoserve/support-service/internal/config"
	"github.com/echoserve/support-service/internal/domain"
	"github.com/echoserve/support-service/internal/events"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

type ticketFixture struct {
	tickets    *fakeTicketRepo
	agents     *fakeAgentRepo
	chat       *fakeChatRepo
	classifier *fakeClassifier
	service    *TicketService
}

func newTicketFixture() *ticketFixture {
	tickets := newFakeTicketRepo()
	agents := newFakeAgentRepo()
	chat := &fakeChatRepo{}
	classifier := &fakeClassifier{
		classification: domain.ClassificationResult{
			Summary:   "billing dispute",
			Tags:      []string{"billing"},
			Sentiment: domain.SentimentNegative,
		},
	}
	dispatcher := events.NewInMemoryDispatcher()
	router := NewRouterService(RouterDependencies{
		TicketRepo: tickets,
		AgentRepo:  agents,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	svc := NewTicketService(TicketDependencies{
		TicketRepo: tickets,
		AgentRepo:  agents,
		ChatRepo:   chat,
		Classifier: classifier,
		Router:     router,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
		Classify:   config.ClassifierConfig{TimeoutSeconds: 5},
	})
	return &ticketFixture{tickets: tickets, agents: agents, chat: chat, classifier: classifier, service: svc}
}

func validEscalation() EscalationInput {
	return EscalationInput{
		CustomerEmail: "jo@example.com",
		SessionID:     "sess-1",
		UserMessage:   "I was charged twice",
		AIResponse:    "Let me connect you with a specialist",
	}
}

func TestCreateFromEscalation_RejectsMissingFields(t *testing.T) {
	f := newTicketFixture()
	input := validEscalation()
	input.SessionID = "  "
	input.AIResponse = ""

	_, err := f.service.CreateFromEscalation(context.Background(), input)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.ElementsMatch(t, []string{"sessionId", "aiResponse"}, domainErr.Details["fields"])
}

func TestCreateFromEscalation_ClassifiesAndRoutes(t *testing.T) {
	f := newTicketFixture()
	f.agents.seed(domain.Agent{ID: "agent-a", Name: "Alice", Tags: []string{"billing"}, Online: true})

	result, err := f.service.CreateFromEscalation(context.Background(), validEscalation())
	require.NoError(t, err)
	require.NotNil(t, result.Ticket)
	assert.Equal(t, domain.TicketStatusOpen, result.Ticket.Status)
	assert.Equal(t, "billing dispute", result.Ticket.Summary)
	assert.Equal(t, []string{"billing"}, result.Ticket.Tags)
	require.NotNil(t, result.Ticket.AssignedAgentID)
	assert.Equal(t, "agent-a", *result.Ticket.AssignedAgentID)
	assert.Equal(t, "Alice", result.AssignedAgentName)
	assert.Equal(t, 1, f.agents.load("agent-a"))
}

func TestCreateFromEscalation_ClassifierFailureDegrades(t *testing.T) {
	f := newTicketFixture()
	f.classifier.err = apperrors.ErrClassifierUnavailable
	f.agents.seed(domain.Agent{ID: "agent-a", Name: "Alice", Tags: []string{"billing"}, Online: true})

	result, err := f.service.CreateFromEscalation(context.Background(), validEscalation())
	require.NoError(t, err)
	assert.Empty(t, result.Ticket.Summary)
	assert.Empty(t, result.Ticket.Tags)
	// no tags means no routing either
	assert.Nil(t, result.Ticket.AssignedAgentID)
	assert.Empty(t, result.AssignedAgentName)
}

func TestCreateFromEscalation_NoAgentsLeavesUnassigned(t *testing.T) {
	f := newTicketFixture()

	result, err := f.service.CreateFromEscalation(context.Background(), validEscalation())
	require.NoError(t, err)
	assert.Nil(t, result.Ticket.AssignedAgentID)
	assert.Equal(t, "billing dispute", result.Ticket.Summary)
}

func TestCreateFromEscalation_UsesSessionTranscript(t *testing.T) {
	f := newTicketFixture()
	f.chat.seed(domain.ChatMessage{SessionID: "sess-1", Role: domain.RoleUser, Body: "hello"})
	f.chat.seed(domain.ChatMessage{SessionID: "sess-1", Role: domain.RoleAI, Body: "hi, how can I help?"})
	f.chat.seed(domain.ChatMessage{SessionID: "other", Role: domain.RoleUser, Body: "unrelated"})

	_, err := f.service.CreateFromEscalation(context.Background(), validEscalation())
	require.NoError(t, err)
	require.Len(t, f.classifier.lastTranscript, 2)
	assert.Equal(t, "hello", f.classifier.lastTranscript[0].Text)
}

func TestCreateFromEscalation_FallsBackToEscalatingExchange(t *testing.T) {
	f := newTicketFixture()

	input := validEscalation()
	_, err := f.service.CreateFromEscalation(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, f.classifier.lastTranscript, 2)
	assert.Equal(t, domain.RoleUser, f.classifier.lastTranscript[0].Role)
	assert.Equal(t, input.UserMessage, f.classifier.lastTranscript[0].Text)
	assert.Equal(t, domain.RoleAI, f.classifier.lastTranscript[1].Role)
}

func TestSetStatus_RejectsUnknownValue(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.seed(domain.Ticket{Status: domain.TicketStatusOpen})

	_, err := f.service.SetStatus(context.Background(), ticket.ID, "archived")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", apperrors.ToDomainError(err).Code)
}

func TestSetStatus_ClosesTicket(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.seed(domain.Ticket{Status: domain.TicketStatusOpen})

	updated, err := f.service.SetStatus(context.Background(), ticket.ID, "closed")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, stored.Status)
}

func TestSetStatus_SameStatusIsIdempotent(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.seed(domain.Ticket{Status: domain.TicketStatusClosed})

	updated, err := f.service.SetStatus(context.Background(), ticket.ID, "closed")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)
}

func TestSetStatus_ClosingKeepsAgentLoad(t *testing.T) {
	f := newTicketFixture()
	f.agents.seed(domain.Agent{ID: "agent-a", CurrentLoad: 3})
	ticket := f.tickets.seed(domain.Ticket{Status: domain.TicketStatusOpen, AssignedAgentID: strPtr("agent-a")})

	_, err := f.service.SetStatus(context.Background(), ticket.ID, "closed")
	require.NoError(t, err)
	assert.Equal(t, 3, f.agents.load("agent-a"))
}

func TestSetStatus_UnknownTicket(t *testing.T) {
	f := newTicketFixture()
	_, err := f.service.SetStatus(context.Background(), "missing", "closed")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
