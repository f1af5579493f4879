package service

import (
	"context"
	"sort"
	"time"

	"github.com/echoserve/support-service/internal/domain"
	"github.com/echoserve/support-service/internal/repository"
	apperrors "github.com/echoserve/support-service/pkg/util"
)

// TimelineService builds the cross-channel view of a customer's
// interactions: the merged timeline and the customer directory.
type TimelineService struct {
	tickets repository.TicketRepository
	chat    repository.ChatMessageRepository
	emails  repository.EmailMessageRepository
}

// NewTimelineService constructs the service.
func NewTimelineService(tickets repository.TicketRepository, chat repository.ChatMessageRepository, emails repository.EmailMessageRepository) *TimelineService {
	return &TimelineService{tickets: tickets, chat: chat, emails: emails}
}

// Merge returns every message for the customer across email and chat,
// normalized and sorted ascending by creation time. Email entries are
// appended before chat entries and the sort is stable, so entries with
// identical timestamps keep that order.
func (s *TimelineService) Merge(ctx context.Context, email string) ([]domain.TimelineEntry, error) {
	timeline, err := s.collect(ctx, email)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].CreatedAt.Before(timeline[j].CreatedAt)
	})
	return timeline, nil
}

func (s *TimelineService) collect(ctx context.Context, email string) ([]domain.TimelineEntry, error) {
	emailMessages, err := s.emails.ListByCustomer(ctx, email)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}

	var timeline []domain.TimelineEntry
	for _, msg := range emailMessages {
		if msg.Body != "" {
			timeline = append(timeline, domain.TimelineEntry{
				Content:   msg.Body,
				CreatedAt: msg.CreatedAt,
				Role:      domain.RoleUser,
				Channel:   domain.ChannelEmail,
			})
		}
		if msg.AIReply != "" {
			// the stored reply shares the inbound email's timestamp
			timeline = append(timeline, domain.TimelineEntry{
				Content:   msg.AIReply,
				CreatedAt: msg.CreatedAt,
				Role:      domain.RoleAI,
				Channel:   domain.ChannelEmail,
			})
		}
	}

	tickets, err := s.tickets.ListByCustomer(ctx, email)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	sessionIDs := uniqueSessionIDs(tickets)
	chatMessages, err := s.chat.ListBySessions(ctx, sessionIDs)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	for _, msg := range chatMessages {
		timeline = append(timeline, domain.TimelineEntry{
			Content:   msg.Body,
			CreatedAt: msg.CreatedAt,
			Role:      msg.Role,
			Channel:   domain.ChannelChat,
		})
	}
	return timeline, nil
}

// ListCustomers returns the cross-channel customer directory, deduplicated
// by identity and sorted by most recent activity.
func (s *TimelineService) ListCustomers(ctx context.Context) ([]domain.CustomerSummary, error) {
	emailMessages, err := s.emails.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}

	byEmail := make(map[string]*domain.CustomerSummary)
	record := func(email string, at time.Time) {
		if email == "" {
			return
		}
		summary, ok := byEmail[email]
		if !ok {
			summary = &domain.CustomerSummary{Email: email}
			byEmail[email] = summary
		}
		summary.TotalMessages++
		if at.After(summary.LastMessageDate) {
			summary.LastMessageDate = at
		}
	}
	for _, msg := range emailMessages {
		record(msg.CustomerEmail, msg.CreatedAt)
	}
	for _, ticket := range tickets {
		record(ticket.CustomerEmail, ticket.CreatedAt)
	}

	customers := make([]domain.CustomerSummary, 0, len(byEmail))
	for _, summary := range byEmail {
		customers = append(customers, *summary)
	}
	sort.Slice(customers, func(i, j int) bool {
		if !customers[i].LastMessageDate.Equal(customers[j].LastMessageDate) {
			return customers[i].LastMessageDate.After(customers[j].LastMessageDate)
		}
		return customers[i].Email < customers[j].Email
	})
	return customers, nil
}

func uniqueSessionIDs(tickets []domain.Ticket) []string {
	seen := make(map[string]struct{}, len(tickets))
	ids := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		if ticket.SessionID == "" {
			continue
		}
		if _, ok := seen[ticket.SessionID]; ok {
			continue
		}
		seen[ticket.SessionID] = struct{}{}
		ids = append(ids, ticket.SessionID)
	}
	return ids
}
