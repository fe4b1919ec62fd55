// Package messaging delivers attendant replies to customers through the
// WhatsApp messaging provider.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyMessage is returned when neither a body nor media is provided.
var ErrEmptyMessage = errors.New("message has no body or media")

// OutboundMessage is one message handed to the provider.
type OutboundMessage struct {
	// To is the customer number, with or without the "whatsapp:" prefix.
	To        string
	Body      string
	MediaURLs []string
}

// Sender delivers outbound messages and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, msg OutboundMessage) (string, error)
}

// SignBody prefixes a reply with the attendant's name the way customers see it.
func SignBody(attendantName, body string) string {
	name := strings.TrimSpace(attendantName)
	if name == "" {
		name = "Atendente"
	}
	return fmt.Sprintf("[%s]: %s", name, body)
}

func validate(msg OutboundMessage) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("recipient required")
	}
	if strings.TrimSpace(msg.Body) == "" && len(msg.MediaURLs) == 0 {
		return ErrEmptyMessage
	}
	return nil
}
