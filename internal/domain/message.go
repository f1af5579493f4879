package domain

import "time"

// Channel identifies the transport a message arrived on.
type Channel string

const (
	ChannelChat  Channel = "chat"
	ChannelEmail Channel = "email"
)

// Role is the normalized speaker vocabulary shared by all channels.
type Role string

const (
	RoleUser  Role = "user"
	RoleAI    Role = "ai"
	RoleAgent Role = "agent"
)

// NormalizeChatRole maps the chat widget's raw role strings onto the
// common vocabulary. The widget reports the assistant as "bot".
func NormalizeChatRole(raw string) Role {
	switch raw {
	case "bot", "ai":
		return RoleAI
	case "agent":
		return RoleAgent
	default:
		return RoleUser
	}
}

// ChatMessage is one utterance in a chat session. Append-only.
type ChatMessage struct {
	ID        string
	SessionID string
	Role      Role
	Body      string
	CreatedAt time.Time
}

// EmailMessage is one inbound email plus its stored AI reply. Append-only.
type EmailMessage struct {
	ID            string
	FromAddress   string
	Subject       string
	Body          string
	AIReply       string
	Tags          []string
	CustomerEmail string
	CreatedAt     time.Time
}

// TimelineEntry is the cross-channel projection of a message used by the
// agent console and by the insights prompt window. Derived, never persisted.
type TimelineEntry struct {
	Content   string
	CreatedAt time.Time
	Role      Role
	Channel   Channel
}

// Utterance is a role-tagged line of text handed to the classifier.
type Utterance struct {
	Role Role
	Text string
}

// CustomerSummary is one row of the cross-channel customer directory.
type CustomerSummary struct {
	Email           string
	TotalMessages   int
	LastMessageDate time.Time
}
