package dto

import "github.com/spec-kit/attendant-desk/internal/domain"

// StatusSuccess is the status value of successful message operations.
const StatusSuccess = "sucesso"

// SendMessageRequest payload.
type SendMessageRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// SendResponse reports a delivered message.
type SendResponse struct {
	Status    string  `json:"status"`
	SID       string  `json:"sid,omitempty"`
	MessageID int64   `json:"message_id,omitempty"`
	MediaURL  *string `json:"media_url,omitempty"`
}

// SavedContactRequest payload.
type SavedContactRequest struct {
	ContactNumber string `json:"contact_number"`
	ContactName   string `json:"contact_name"`
}

// SavedContactResponse is a saved contact. Field names follow the
// dashboard script, which shares its list renderer with conversations.
type SavedContactResponse struct {
	ContactNumber string `json:"contact_number"`
	ContactName   string `json:"nome_contato"`
}

// NewSavedContacts maps saved contacts.
func NewSavedContacts(items []domain.SavedContact) []SavedContactResponse {
	out := make([]SavedContactResponse, 0, len(items))
	for _, it := range items {
		out = append(out, SavedContactResponse{ContactNumber: it.CustomerNumber, ContactName: it.DisplayName})
	}
	return out
}

// QuickReplyRequest payload.
type QuickReplyRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// QuickReplyResponse is a canned response.
type QuickReplyResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// NewQuickReplies maps quick replies.
func NewQuickReplies(items []domain.QuickReply) []QuickReplyResponse {
	out := make([]QuickReplyResponse, 0, len(items))
	for _, it := range items {
		out = append(out, QuickReplyResponse{ID: it.ID, Name: it.Name, Content: it.Content})
	}
	return out
}

// ReadyMessageResponse is a quick reply under the field names the dashboard
// script reads from /api/ready_messages.
type ReadyMessageResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"nome"`
	Content string `json:"conteudo"`
}

// NewReadyMessages maps quick replies for the dashboard script.
func NewReadyMessages(items []domain.QuickReply) []ReadyMessageResponse {
	out := make([]ReadyMessageResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ReadyMessageResponse{ID: it.ID, Name: it.Name, Content: it.Content})
	}
	return out
}
