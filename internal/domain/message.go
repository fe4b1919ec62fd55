package domain

import (
	"strings"
	"time"
)

// SenderRole identifies who wrote a stored message.
type SenderRole string

const (
	SenderUser   SenderRole = "user"
	SenderBot    SenderRole = "bot"
	SenderHuman  SenderRole = "human"
	SenderSystem SenderRole = "system"
)

// MessageType classifies stored messages. The bot reads and writes the same
// table, so these values are part of the contract with it; the dashboard
// only writes the ones below.
type MessageType string

const (
	MessageTypeHumanReply MessageType = "RESPOSTA_HUMANA"
	MessageTypeMedia      MessageType = "MIDIA_HUMANA"
	MessageTypeClosure    MessageType = "ENCERRAMENTO"
	MessageTypeInitial    MessageType = "CONTATO_INICIAL"
)

// Direction is how a message renders in the chat window.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Message is one entry in a customer's conversation history.
type Message struct {
	ID             int64
	CustomerNumber string
	Sender         SenderRole
	Body           string
	ReceivedAt     time.Time
	Type           MessageType
	Sector         *Sector
	MediaURL       *string
}

// Direction is inbound only for messages the customer wrote.
func (m Message) Direction() Direction {
	if strings.EqualFold(strings.TrimSpace(string(m.Sender)), string(SenderUser)) {
		return DirectionInbound
	}
	return DirectionOutbound
}

// MediaFile stores metadata for an uploaded file sent in a message.
type MediaFile struct {
	ID         string
	MessageID  int64
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
