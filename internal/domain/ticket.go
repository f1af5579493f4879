package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// IsValid reports whether the status is one of the defined lifecycle states.
func (s TicketStatus) IsValid() bool {
	return s == TicketStatusOpen || s == TicketStatusClosed
}

// AssignmentOrigin records how a ticket got its current assignee. Stored
// alongside the assignment because timestamps cannot distinguish the
// creation pipeline's own writes from a later manual reassignment.
type AssignmentOrigin string

const (
	AssignmentOriginNone   AssignmentOrigin = ""
	AssignmentOriginAuto   AssignmentOrigin = "auto"
	AssignmentOriginManual AssignmentOrigin = "manual"
)

// Ticket is the aggregate for escalated conversations.
type Ticket struct {
	ID               string
	CustomerEmail    string
	SessionID        string
	UserMessage      string
	AIResponse       string
	Status           TicketStatus
	AssignedAgentID  *string
	AssignmentOrigin AssignmentOrigin
	Summary          string
	Tags             []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
