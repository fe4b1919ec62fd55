package domain

import "time"

// ConversationState says who owns a conversation.
type ConversationState string

const (
	StateBot   ConversationState = "BOT"
	StateHuman ConversationState = "HUMAN"
)

// ConversationStatus is the handoff row for one contact number.
type ConversationStatus struct {
	ContactNumber  string
	State          ConversationState
	AssignedSector *Sector
	UpdatedAt      time.Time
}

// ConversationSummary is one entry of an attendant's active conversation list.
type ConversationSummary struct {
	ContactNumber     string
	ContactName       *string
	LastMessageBody   string
	LastMessageTime   time.Time
	LastMessageSender SenderRole
	AssignedSector    Sector
}
