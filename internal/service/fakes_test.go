package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/echoserve/support-service/internal/domain"
)

// fakeTicketRepo is an in-memory ticket store with the same conditional
// update semantics as the SQL implementation.
type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) seed(ticket domain.Ticket) *domain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	stored := ticket
	r.tickets[stored.ID] = &stored
	copied := stored
	return &copied
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = uuid.NewString()
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeTicketRepo) List(ctx context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Ticket, 0, len(r.tickets))
	for _, stored := range r.tickets {
		out = append(out, *stored)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeTicketRepo) ListByCustomer(ctx context.Context, email string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, stored := range r.tickets {
		if stored.CustomerEmail == email {
			out = append(out, *stored)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeTicketRepo) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTicketRepo) UpdateClassification(ctx context.Context, id, summary string, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Summary = summary
	stored.Tags = tags
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTicketRepo) CompareAndSwapAssignee(ctx context.Context, id string, expected, next *string, origin domain.AssignmentOrigin) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if !sameRef(stored.AssignedAgentID, expected) {
		return false, nil
	}
	if next == nil {
		stored.AssignedAgentID = nil
	} else {
		v := *next
		stored.AssignedAgentID = &v
	}
	stored.AssignmentOrigin = origin
	stored.UpdatedAt = time.Now()
	return true, nil
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// fakeAgentRepo mirrors the per-agent load compare-and-swap.
type fakeAgentRepo struct {
	mu     sync.Mutex
	agents map[string]*domain.Agent
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{agents: make(map[string]*domain.Agent)}
}

func (r *fakeAgentRepo) seed(agent domain.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := agent
	r.agents[agent.ID] = &stored
}

func (r *fakeAgentRepo) load(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.agents[id].CurrentLoad
}

func (r *fakeAgentRepo) Create(ctx context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	stored := *agent
	r.agents[agent.ID] = &stored
	return nil
}

func (r *fakeAgentRepo) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.agents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeAgentRepo) List(ctx context.Context) ([]domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Agent, 0, len(r.agents))
	for _, stored := range r.agents {
		out = append(out, *stored)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAgentRepo) ListOnline(ctx context.Context) ([]domain.Agent, error) {
	agents, _ := r.List(ctx)
	out := agents[:0]
	for _, agent := range agents {
		if agent.Online {
			out = append(out, agent)
		}
	}
	return out, nil
}

func (r *fakeAgentRepo) CompareAndSwapLoad(ctx context.Context, id string, expected, next int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.agents[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if stored.CurrentLoad != expected {
		return false, nil
	}
	stored.CurrentLoad = next
	return true, nil
}

// flakyAgentRepo rejects every load swap to exhaust retry budgets.
type flakyAgentRepo struct {
	*fakeAgentRepo
}

func (r *flakyAgentRepo) CompareAndSwapLoad(ctx context.Context, id string, expected, next int) (bool, error) {
	if _, err := r.fakeAgentRepo.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// fakeChatRepo is an append-only in-memory transcript store.
type fakeChatRepo struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
}

func (r *fakeChatRepo) seed(msg domain.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	r.messages = append(r.messages, msg)
}

func (r *fakeChatRepo) Create(ctx context.Context, msg *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeChatRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	return r.ListBySessions(ctx, []string{sessionID})
}

func (r *fakeChatRepo) ListBySessions(ctx context.Context, sessionIDs []string) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]struct{}, len(sessionIDs))
	for _, id := range sessionIDs {
		wanted[id] = struct{}{}
	}
	var out []domain.ChatMessage
	for _, msg := range r.messages {
		if _, ok := wanted[msg.SessionID]; ok {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// fakeEmailRepo is an append-only in-memory email store.
type fakeEmailRepo struct {
	mu       sync.Mutex
	messages []domain.EmailMessage
}

func (r *fakeEmailRepo) seed(msg domain.EmailMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	r.messages = append(r.messages, msg)
}

func (r *fakeEmailRepo) Create(ctx context.Context, msg *domain.EmailMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeEmailRepo) List(ctx context.Context) ([]domain.EmailMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EmailMessage, len(r.messages))
	copy(out, r.messages)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeEmailRepo) ListByCustomer(ctx context.Context, email string) ([]domain.EmailMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.EmailMessage
	for _, msg := range r.messages {
		if msg.CustomerEmail == email {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// fakeClassifier returns canned results or a configured error.
type fakeClassifier struct {
	classification domain.ClassificationResult
	insights       domain.CustomerInsights
	emailTags      []string
	emailReply     string
	err            error

	mu               sync.Mutex
	summarizeCalls   int
	lastTranscript   []domain.Utterance
	insightsCalls    int
	lastInsightsSize int
}

func (f *fakeClassifier) SummarizeConversation(ctx context.Context, utterances []domain.Utterance) (domain.ClassificationResult, error) {
	f.mu.Lock()
	f.summarizeCalls++
	f.lastTranscript = utterances
	f.mu.Unlock()
	if f.err != nil {
		return domain.ClassificationResult{}, f.err
	}
	return f.classification, nil
}

func (f *fakeClassifier) CustomerInsights(ctx context.Context, utterances []domain.Utterance) (domain.CustomerInsights, error) {
	f.mu.Lock()
	f.insightsCalls++
	f.lastInsightsSize = len(utterances)
	f.mu.Unlock()
	if f.err != nil {
		return domain.CustomerInsights{}, f.err
	}
	return f.insights, nil
}

func (f *fakeClassifier) EmailTags(ctx context.Context, subject, body string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.emailTags, nil
}

func (f *fakeClassifier) DraftEmailReply(ctx context.Context, from, subject, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.emailReply, nil
}

func strPtr(s string) *string { return &s }
