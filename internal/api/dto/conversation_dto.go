package dto

import (
	"time"

	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/service"
)

// ConversationSummary is one row of the active conversation list.
type ConversationSummary struct {
	ContactNumber     string            `json:"contact_number"`
	ContactName       *string           `json:"nome_contato"`
	LastMessageBody   string            `json:"last_message_body"`
	LastMessageTime   time.Time         `json:"last_message_time"`
	LastMessageSender domain.SenderRole `json:"last_message_sender"`
	AssignedSector    domain.Sector     `json:"assigned_sector"`
}

// NewConversationSummaries maps the service list.
func NewConversationSummaries(items []domain.ConversationSummary) []ConversationSummary {
	out := make([]ConversationSummary, 0, len(items))
	for _, it := range items {
		out = append(out, ConversationSummary{
			ContactNumber:     it.ContactNumber,
			ContactName:       it.ContactName,
			LastMessageBody:   it.LastMessageBody,
			LastMessageTime:   it.LastMessageTime,
			LastMessageSender: it.LastMessageSender,
			AssignedSector:    it.AssignedSector,
		})
	}
	return out
}

// MediaResponse describes an attachment of a history message.
type MediaResponse struct {
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// HistoryMessage is one chat bubble.
type HistoryMessage struct {
	ID         int64              `json:"id"`
	Body       string             `json:"body"`
	Direction  domain.Direction   `json:"direction"`
	Sender     domain.SenderRole  `json:"sender"`
	Type       domain.MessageType `json:"message_type"`
	ReceivedAt time.Time          `json:"received_at"`
	MediaURL   *string            `json:"media_url,omitempty"`
	Media      *MediaResponse     `json:"media,omitempty"`
}

// StatusResponse is the handoff state of a contact.
type StatusResponse struct {
	ContactNumber  string                   `json:"contact_number"`
	Status         domain.ConversationState `json:"status"`
	AssignedSector *domain.Sector           `json:"assigned_sector"`
}

// ConversationDetail is the chat window payload.
type ConversationDetail struct {
	ContactNumber string           `json:"contact_number"`
	Status        StatusResponse   `json:"status"`
	Messages      []HistoryMessage `json:"messages"`
}

// NewConversationDetail maps a history.
func NewConversationDetail(h *service.History) ConversationDetail {
	msgs := make([]HistoryMessage, 0, len(h.Entries))
	for _, e := range h.Entries {
		m := HistoryMessage{
			ID:         e.ID,
			Body:       e.Body,
			Direction:  e.Direction,
			Sender:     e.Sender,
			Type:       e.Type,
			ReceivedAt: e.ReceivedAt,
			MediaURL:   e.MediaURL,
		}
		if e.Media != nil {
			m.Media = &MediaResponse{FileName: e.Media.FileName, MimeType: e.Media.MimeType, SizeBytes: e.Media.SizeBytes}
		}
		msgs = append(msgs, m)
	}
	return ConversationDetail{
		ContactNumber: h.ContactNumber,
		Status:        NewStatusResponse(h.Status),
		Messages:      msgs,
	}
}

// NewStatusResponse maps a status row.
func NewStatusResponse(s *domain.ConversationStatus) StatusResponse {
	if s == nil {
		return StatusResponse{Status: domain.StateBot}
	}
	return StatusResponse{ContactNumber: s.ContactNumber, Status: s.State, AssignedSector: s.AssignedSector}
}

// StartConversationRequest payload.
type StartConversationRequest struct {
	ContactNumber  string `json:"contact_number"`
	InitialMessage string `json:"initial_message"`
}

// CloseConversationRequest payload.
type CloseConversationRequest struct {
	ContactNumber string `json:"contact_number"`
}
