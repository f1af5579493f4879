package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoserve/support-service/internal/domain"
)

func at(min int) time.Time {
	return time.Date(2026, 3, 1, 12, min, 0, 0, time.UTC)
}

func TestMerge_SortsAcrossChannels(t *testing.T) {
	tickets := newFakeTicketRepo()
	chat := &fakeChatRepo{}
	emails := &fakeEmailRepo{}
	svc := NewTimelineService(tickets, chat, emails)

	tickets.seed(domain.Ticket{CustomerEmail: "jo@example.com", SessionID: "sess-1", CreatedAt: at(0)})
	chat.seed(domain.ChatMessage{SessionID: "sess-1", Role: domain.RoleUser, Body: "chat one", CreatedAt: at(1)})
	chat.seed(domain.ChatMessage{SessionID: "sess-1", Role: domain.RoleAI, Body: "chat two", CreatedAt: at(5)})
	emails.seed(domain.EmailMessage{CustomerEmail: "jo@example.com", Body: "email one", AIReply: "email reply", CreatedAt: at(3)})

	timeline, err := svc.Merge(context.Background(), "jo@example.com")
	require.NoError(t, err)
	require.Len(t, timeline, 4)
	assert.Equal(t, "chat one", timeline[0].Content)
	assert.Equal(t, "email one", timeline[1].Content)
	assert.Equal(t, "email reply", timeline[2].Content)
	assert.Equal(t, "chat two", timeline[3].Content)
	assert.Equal(t, domain.ChannelEmail, timeline[1].Channel)
	assert.Equal(t, domain.RoleUser, timeline[1].Role)
	assert.Equal(t, domain.RoleAI, timeline[2].Role)
}

func TestMerge_EqualTimestampsKeepEmailFirst(t *testing.T) {
	tickets := newFakeTicketRepo()
	chat := &fakeChatRepo{}
	emails := &fakeEmailRepo{}
	svc := NewTimelineService(tickets, chat, emails)

	tickets.seed(domain.Ticket{CustomerEmail: "jo@example.com", SessionID: "sess-1", CreatedAt: at(0)})
	chat.seed(domain.ChatMessage{SessionID: "sess-1", Role: domain.RoleUser, Body: "chat", CreatedAt: at(2)})
	emails.seed(domain.EmailMessage{CustomerEmail: "jo@example.com", Body: "email", CreatedAt: at(2)})

	timeline, err := svc.Merge(context.Background(), "jo@example.com")
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "email", timeline[0].Content)
	assert.Equal(t, "chat", timeline[1].Content)
}

func TestMerge_IsRepeatable(t *testing.T) {
	tickets := newFakeTicketRepo()
	chat := &fakeChatRepo{}
	emails := &fakeEmailRepo{}
	svc := NewTimelineService(tickets, chat, emails)

	tickets.seed(domain.Ticket{CustomerEmail: "jo@example.com", SessionID: "sess-1", CreatedAt: at(0)})
	for i := 0; i < 5; i++ {
		chat.seed(domain.ChatMessage{SessionID: "sess-1", Role: domain.RoleUser, Body: "m", CreatedAt: at(i)})
		emails.seed(domain.EmailMessage{CustomerEmail: "jo@example.com", Body: "e", CreatedAt: at(i)})
	}

	first, err := svc.Merge(context.Background(), "jo@example.com")
	require.NoError(t, err)
	second, err := svc.Merge(context.Background(), "jo@example.com")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMerge_SkipsOtherCustomersSessions(t *testing.T) {
	tickets := newFakeTicketRepo()
	chat := &fakeChatRepo{}
	emails := &fakeEmailRepo{}
	svc := NewTimelineService(tickets, chat, emails)

	tickets.seed(domain.Ticket{CustomerEmail: "jo@example.com", SessionID: "sess-1", CreatedAt: at(0)})
	tickets.seed(domain.Ticket{CustomerEmail: "sam@example.com", SessionID: "sess-2", CreatedAt: at(0)})
	chat.seed(domain.ChatMessage{SessionID: "sess-1", Role: domain.RoleUser, Body: "mine", CreatedAt: at(1)})
	chat.seed(domain.ChatMessage{SessionID: "sess-2", Role: domain.RoleUser, Body: "theirs", CreatedAt: at(1)})

	timeline, err := svc.Merge(context.Background(), "jo@example.com")
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, "mine", timeline[0].Content)
}

func TestListCustomers_DeduplicatesAndSorts(t *testing.T) {
	tickets := newFakeTicketRepo()
	chat := &fakeChatRepo{}
	emails := &fakeEmailRepo{}
	svc := NewTimelineService(tickets, chat, emails)

	tickets.seed(domain.Ticket{CustomerEmail: "jo@example.com", SessionID: "sess-1", CreatedAt: at(1)})
	tickets.seed(domain.Ticket{CustomerEmail: "jo@example.com", SessionID: "sess-2", CreatedAt: at(4)})
	emails.seed(domain.EmailMessage{CustomerEmail: "jo@example.com", Body: "e", CreatedAt: at(2)})
	emails.seed(domain.EmailMessage{CustomerEmail: "sam@example.com", Body: "e", CreatedAt: at(8)})

	customers, err := svc.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "sam@example.com", customers[0].Email)
	assert.Equal(t, 1, customers[0].TotalMessages)
	assert.Equal(t, "jo@example.com", customers[1].Email)
	assert.Equal(t, 3, customers[1].TotalMessages)
	assert.Equal(t, at(4), customers[1].LastMessageDate)
}

func TestListCustomers_IgnoresMissingIdentity(t *testing.T) {
	tickets := newFakeTicketRepo()
	chat := &fakeChatRepo{}
	emails := &fakeEmailRepo{}
	svc := NewTimelineService(tickets, chat, emails)

	emails.seed(domain.EmailMessage{CustomerEmail: "", Body: "orphan", CreatedAt: at(1)})
	customers, err := svc.ListCustomers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, customers)
}
