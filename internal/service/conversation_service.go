package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/events"
	"github.com/spec-kit/attendant-desk/internal/repository"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

// ConversationService manages the bot/human handoff and conversation history.
type ConversationService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	media         repository.MediaRepository
	messaging     *MessagingService
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// ConversationDependencies bundles collaborators for the conversation service.
type ConversationDependencies struct {
	ConversationRepo repository.ConversationRepository
	MessageRepo      repository.MessageRepository
	MediaRepo        repository.MediaRepository
	Messaging        *MessagingService
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewConversationService builds the service.
func NewConversationService(deps ConversationDependencies) *ConversationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		conversations: deps.ConversationRepo,
		messages:      deps.MessageRepo,
		media:         deps.MediaRepo,
		messaging:     deps.Messaging,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
	}
}

// HistoryEntry is one message of a conversation as the chat window shows it.
type HistoryEntry struct {
	domain.Message
	Direction domain.Direction
	Media     *domain.MediaFile
}

// History is a contact's full message log with its handoff status.
type History struct {
	ContactNumber string
	Status        *domain.ConversationStatus
	Entries       []HistoryEntry
}

// ListActive returns human-handled conversations routed to sector, newest first.
func (s *ConversationService) ListActive(ctx context.Context, sector domain.Sector) ([]domain.ConversationSummary, error) {
	items, err := s.conversations.ListActive(ctx, sector)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if items == nil {
		items = []domain.ConversationSummary{}
	}
	return items, nil
}

// History returns every message exchanged with contact in chronological order.
func (s *ConversationService) History(ctx context.Context, contact string) (*History, error) {
	contact = domain.BareNumber(contact)
	if contact == "" {
		return nil, apperrors.NewValidationError("Contato não fornecido.", nil)
	}

	msgs, err := s.messages.ListByCustomer(ctx, domain.WhatsAppAddress(contact))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	status, err := s.conversations.GetStatus(ctx, contact)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	mediaByMessage := map[int64]*domain.MediaFile{}
	if s.media != nil && len(msgs) > 0 {
		ids := make([]int64, 0, len(msgs))
		for _, m := range msgs {
			if m.MediaURL != nil {
				ids = append(ids, m.ID)
			}
		}
		if len(ids) > 0 {
			files, err := s.media.ListByMessages(ctx, ids)
			if err != nil {
				return nil, apperrors.MapError(err)
			}
			for i := range files {
				mediaByMessage[files[i].MessageID] = &files[i]
			}
		}
	}

	entries := make([]HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, HistoryEntry{Message: m, Direction: m.Direction(), Media: mediaByMessage[m.ID]})
	}
	return &History{ContactNumber: contact, Status: status, Entries: entries}, nil
}

// Status returns the handoff state of contact; contacts never seen are BOT.
func (s *ConversationService) Status(ctx context.Context, contact string) (*domain.ConversationStatus, error) {
	contact = domain.BareNumber(contact)
	if contact == "" {
		return nil, apperrors.NewValidationError("Contato não fornecido.", nil)
	}
	status, err := s.conversations.GetStatus(ctx, contact)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return status, nil
}

// Close hands the conversation back to the bot and logs who closed it.
func (s *ConversationService) Close(ctx context.Context, attendant *domain.Attendant, contact string) (*domain.Message, error) {
	contact = domain.BareNumber(contact)
	if contact == "" {
		return nil, apperrors.NewValidationError("Contato não fornecido.", nil)
	}
	if err := s.conversations.SetStatus(ctx, contact, domain.StateBot, nil); err != nil {
		return nil, apperrors.MapError(err)
	}

	sector := attendant.Sector
	msg := &domain.Message{
		CustomerNumber: domain.WhatsAppAddress(contact),
		Sender:         domain.SenderSystem,
		Body:           "Atendimento encerrado por " + attendant.Name + ".",
		Type:           domain.MessageTypeClosure,
		Sector:         &sector,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("conversation closed", zap.String("contact", contact), zap.String("attendant_id", attendant.ID))

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:          events.EventConversationClosed,
		ContactNumber: contact,
		Actor:         events.ActorFor(attendant),
		Payload:       events.ConversationClosedPayload{MessageID: msg.ID},
	})
	return msg, nil
}

// Start opens a conversation from the dashboard: the initial message is
// sent first and the contact is routed to the attendant's sector only once
// the provider accepted it.
func (s *ConversationService) Start(ctx context.Context, attendant *domain.Attendant, contact, initialMessage string) (*SendResult, error) {
	contact = domain.BareNumber(contact)
	if contact == "" || strings.TrimSpace(initialMessage) == "" {
		return nil, apperrors.NewValidationError("Contato e mensagem inicial são obrigatórios.",
			map[string]any{"required": []string{"contact_number", "initial_message"}})
	}

	res, err := s.messaging.deliverText(ctx, attendant, contact, initialMessage, domain.MessageTypeInitial)
	if err != nil {
		return nil, err
	}
	sector := attendant.Sector
	if err := s.conversations.SetStatus(ctx, contact, domain.StateHuman, &sector); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("conversation started", zap.String("contact", contact), zap.String("attendant_id", attendant.ID))

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:          events.EventConversationStarted,
		ContactNumber: contact,
		Actor:         events.ActorFor(attendant),
		Payload:       events.ConversationStartedPayload{MessageID: res.Message.ID, ProviderID: res.SID},
	})
	return res, nil
}
