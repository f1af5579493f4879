package events

import (
	"time"

	"github.com/echoserve/support-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketClassified    EventType = "ticket_classified"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventChatMessageRecorded EventType = "chat_message_recorded"
	EventEmailRecorded       EventType = "email_recorded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CustomerEmail string `json:"customer_email"`
	SessionID     string `json:"session_id"`
}

// TicketClassifiedPayload payload.
type TicketClassifiedPayload struct {
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AgentID   *string `json:"agent_id,omitempty"`
	AgentName string  `json:"agent_name,omitempty"`
	Auto      bool    `json:"auto"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// ChatMessageRecordedPayload payload.
type ChatMessageRecordedPayload struct {
	SessionID string      `json:"session_id"`
	Role      domain.Role `json:"role"`
}

// EmailRecordedPayload payload.
type EmailRecordedPayload struct {
	CustomerEmail string   `json:"customer_email,omitempty"`
	Tags          []string `json:"tags"`
}
