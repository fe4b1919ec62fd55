package domain

import (
	"strings"
	"time"
)

const whatsappPrefix = "whatsapp:"

// SavedContact is a display name an attendant gave to a customer number.
type SavedContact struct {
	CustomerNumber string
	DisplayName    string
	UpdatedAt      time.Time
}

// QuickReply is a canned response attendants insert into the message box.
type QuickReply struct {
	ID        int64
	Name      string
	Content   string
	CreatedBy *string
	CreatedAt time.Time
}

// BareNumber strips whitespace and any "whatsapp:" prefix.
func BareNumber(contact string) string {
	contact = strings.TrimSpace(contact)
	if len(contact) >= len(whatsappPrefix) && strings.EqualFold(contact[:len(whatsappPrefix)], whatsappPrefix) {
		contact = contact[len(whatsappPrefix):]
	}
	return strings.TrimSpace(contact)
}

// WhatsAppAddress returns the provider address for a contact number.
func WhatsAppAddress(contact string) string {
	return whatsappPrefix + BareNumber(contact)
}
