package events

import (
	"time"

	"github.com/spec-kit/attendant-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventConversationStarted    EventType = "conversation_started"
	EventConversationClosed     EventType = "conversation_closed"
	EventMessageSent            EventType = "message_sent"
)

// Actor identifies the attendant who caused an event.
type Actor struct {
	AttendantID string        `json:"attendant_id,omitempty"`
	Name        string        `json:"name,omitempty"`
	Sector      domain.Sector `json:"sector,omitempty"`
}

// ActorFor builds an Actor from an attendant.
func ActorFor(a *domain.Attendant) Actor {
	if a == nil {
		return Actor{}
	}
	return Actor{AttendantID: a.ID, Name: a.Name, Sector: a.Sector}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	ContactNumber string      `json:"contact_number,omitempty"`
	Actor         Actor       `json:"actor"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// PasswordResetRequestedPayload carries what the reset email needs.
type PasswordResetRequestedPayload struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ConversationStartedPayload payload.
type ConversationStartedPayload struct {
	MessageID  int64  `json:"message_id"`
	ProviderID string `json:"provider_id"`
}

// ConversationClosedPayload payload.
type ConversationClosedPayload struct {
	MessageID int64 `json:"message_id"`
}

// MessageSentPayload payload.
type MessageSentPayload struct {
	MessageID   int64              `json:"message_id"`
	MessageType domain.MessageType `json:"message_type"`
	ProviderID  string             `json:"provider_id"`
	BodyPreview string             `json:"body_preview"`
}
