package service

import (
	"context"
	"errors"
	"net/url"

	"go.uber.org/zap"

	"github.com/spec-kit/attendant-desk/internal/events"
	"github.com/spec-kit/attendant-desk/internal/mail"
	"github.com/spec-kit/attendant-desk/internal/queue"
)

// ResetEmailQueue schedules reset emails for background delivery.
type ResetEmailQueue interface {
	EnqueuePasswordReset(ctx context.Context, p queue.PasswordResetEmail) (string, error)
}

// ResetEmailSender delivers a reset email in the calling goroutine.
type ResetEmailSender interface {
	SendPasswordReset(ctx context.Context, p queue.PasswordResetEmail) error
}

// NotificationService reacts to domain events: reset emails are queued or
// sent, everything else is logged.
type NotificationService struct {
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	queue         ResetEmailQueue
	direct        ResetEmailSender
	publicBaseURL string
}

// NewNotificationService creates the service. A nil queue makes reset
// emails go out synchronously through direct.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, q ResetEmailQueue, direct ResetEmailSender, publicBaseURL string) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher:    dispatcher,
		logger:        logger,
		queue:         q,
		direct:        direct,
		publicBaseURL: publicBaseURL,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventConversationStarted, n.logEvent)
	n.dispatcher.Subscribe(events.EventConversationClosed, n.logEvent)
	n.dispatcher.Subscribe(events.EventMessageSent, n.logEvent)
}

// ResetURL builds the link emailed to the attendant. Without a public base
// URL there is no absolute link to send, and reset emails are skipped.
func (n *NotificationService) ResetURL(token string) string {
	return n.publicBaseURL + "/reset_password/" + url.PathEscape(token)
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return errors.New("password reset event without payload")
	}
	if n.publicBaseURL == "" {
		n.logger.Warn("PUBLIC_BASE_URL not set, reset email skipped", zap.String("attendant_id", event.Actor.AttendantID))
		return nil
	}
	job := queue.PasswordResetEmail{
		AttendantID: event.Actor.AttendantID,
		Name:        payload.Name,
		Email:       payload.Email,
		ResetURL:    n.ResetURL(payload.Token),
		ExpiresAt:   payload.ExpiresAt,
	}

	if n.queue != nil {
		id, err := n.queue.EnqueuePasswordReset(ctx, job)
		if err == nil {
			n.logger.Info("reset email queued", zap.String("task_id", id), zap.String("attendant_id", job.AttendantID))
			return nil
		}
		n.logger.Warn("enqueue reset email failed, sending inline", zap.Error(err))
	}
	if n.direct == nil {
		return errors.New("no reset email delivery configured")
	}
	if err := n.direct.SendPasswordReset(ctx, job); err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			return nil
		}
		return err
	}
	return nil
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("contact", event.ContactNumber),
		zap.String("attendant_id", event.Actor.AttendantID),
		zap.Any("payload", event.Payload))
	return nil
}
