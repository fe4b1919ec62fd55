package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/events"
	"github.com/spec-kit/attendant-desk/internal/messaging"
	"github.com/spec-kit/attendant-desk/internal/observability"
	"github.com/spec-kit/attendant-desk/internal/repository"
	"github.com/spec-kit/attendant-desk/internal/storage"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

// MsgPublicURLMissing is returned when media cannot be linked publicly.
const MsgPublicURLMissing = "URL público da plataforma não configurado."

// MessagingService sends attendant messages through the provider and keeps
// the conversation history in sync.
type MessagingService struct {
	sender        messaging.Sender
	messages      repository.MessageRepository
	media         repository.MediaRepository
	store         *storage.LocalStore
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
	publicBaseURL string
}

// MessagingDependencies bundles collaborators for the messaging service.
type MessagingDependencies struct {
	Sender        messaging.Sender
	MessageRepo   repository.MessageRepository
	MediaRepo     repository.MediaRepository
	Store         *storage.LocalStore
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
	PublicBaseURL string
}

// NewMessagingService builds the service.
func NewMessagingService(deps MessagingDependencies) *MessagingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessagingService{
		sender:        deps.Sender,
		messages:      deps.MessageRepo,
		media:         deps.MediaRepo,
		store:         deps.Store,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        logger,
		publicBaseURL: strings.TrimRight(deps.PublicBaseURL, "/"),
	}
}

// SendResult is the outcome of a delivered message.
type SendResult struct {
	SID     string
	Message *domain.Message
}

// SendText signs body with the attendant's name, sends it and stores the
// unsigned body as a human reply.
func (s *MessagingService) SendText(ctx context.Context, attendant *domain.Attendant, to, body string) (*SendResult, error) {
	contact := domain.BareNumber(to)
	if contact == "" || strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("Dados inválidos.", map[string]any{"required": []string{"to", "message"}})
	}
	return s.deliverText(ctx, attendant, contact, body, domain.MessageTypeHumanReply)
}

func (s *MessagingService) deliverText(ctx context.Context, attendant *domain.Attendant, contact, body string, kind domain.MessageType) (*SendResult, error) {
	sid, err := s.sender.Send(ctx, messaging.OutboundMessage{
		To:   domain.WhatsAppAddress(contact),
		Body: messaging.SignBody(attendant.Name, body),
	})
	s.metrics.RecordOutbound("text", err == nil)
	if err != nil {
		return nil, apperrors.NewUpstreamError("Falha ao enviar mensagem.", err)
	}

	sector := attendant.Sector
	msg := &domain.Message{
		CustomerNumber: domain.WhatsAppAddress(contact),
		Sender:         domain.SenderHuman,
		Body:           body,
		Type:           kind,
		Sector:         &sector,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.logger.Error("message sent but not stored", zap.String("sid", sid), zap.Error(err))
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:          events.EventMessageSent,
		ContactNumber: contact,
		Actor:         events.ActorFor(attendant),
		Payload: events.MessageSentPayload{
			MessageID:   msg.ID,
			MessageType: kind,
			ProviderID:  sid,
			BodyPreview: preview(body),
		},
	})
	return &SendResult{SID: sid, Message: msg}, nil
}

// MediaInput is an uploaded file to forward to a customer.
type MediaInput struct {
	To       string
	Caption  string
	FileName string
	Content  io.Reader
}

// SendMedia stores the upload, sends its public URL with the caption and
// records the message with its media metadata. The stored file is removed
// when the provider rejects the message.
func (s *MessagingService) SendMedia(ctx context.Context, attendant *domain.Attendant, in MediaInput) (*SendResult, error) {
	contact := domain.BareNumber(in.To)
	if contact == "" || strings.TrimSpace(in.FileName) == "" || in.Content == nil {
		return nil, apperrors.NewValidationError("Nome de arquivo ou contato inválido.", nil)
	}
	if s.publicBaseURL == "" {
		return nil, apperrors.NewDomainError("PUBLIC_URL_MISSING", MsgPublicURLMissing, http.StatusInternalServerError, nil)
	}
	if s.store == nil {
		return nil, apperrors.NewInternalError(errors.New("media store not configured"))
	}

	saved, err := s.store.Save(in.FileName, in.Content)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidName):
			return nil, apperrors.NewValidationError("Nome de arquivo inválido.", map[string]any{"file": in.FileName})
		case errors.Is(err, storage.ErrTooLarge):
			return nil, apperrors.NewDomainError("PAYLOAD_TOO_LARGE", "Arquivo muito grande.", http.StatusRequestEntityTooLarge, nil)
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}
	mediaURL := s.publicBaseURL + "/uploads/" + saved.Key

	sid, err := s.sender.Send(ctx, messaging.OutboundMessage{
		To:        domain.WhatsAppAddress(contact),
		Body:      in.Caption,
		MediaURLs: []string{mediaURL},
	})
	s.metrics.RecordOutbound("media", err == nil)
	if err != nil {
		if rmErr := s.store.Remove(saved.Key); rmErr != nil {
			s.logger.Warn("orphan upload left behind", zap.String("key", saved.Key), zap.Error(rmErr))
		}
		return nil, apperrors.NewUpstreamError("Falha ao enviar mídia.", err)
	}

	sector := attendant.Sector
	msg := &domain.Message{
		CustomerNumber: domain.WhatsAppAddress(contact),
		Sender:         domain.SenderHuman,
		Body:           in.Caption,
		Type:           domain.MessageTypeMedia,
		Sector:         &sector,
		MediaURL:       &mediaURL,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.logger.Error("media sent but not stored", zap.String("sid", sid), zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	if s.media != nil {
		file := &domain.MediaFile{
			MessageID:  msg.ID,
			StorageKey: saved.Key,
			FileName:   saved.FileName,
			MimeType:   saved.MimeType,
			SizeBytes:  saved.SizeBytes,
		}
		if err := s.media.Create(ctx, file); err != nil {
			s.logger.Warn("media metadata not stored", zap.Int64("message_id", msg.ID), zap.Error(err))
		}
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:          events.EventMessageSent,
		ContactNumber: contact,
		Actor:         events.ActorFor(attendant),
		Payload: events.MessageSentPayload{
			MessageID:   msg.ID,
			MessageType: domain.MessageTypeMedia,
			ProviderID:  sid,
			BodyPreview: preview(in.Caption),
		},
	})
	return &SendResult{SID: sid, Message: msg}, nil
}
