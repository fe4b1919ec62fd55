// Package worker holds background task handlers.
package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/spec-kit/attendant-desk/internal/mail"
	"github.com/spec-kit/attendant-desk/internal/queue"
	"github.com/spec-kit/attendant-desk/internal/web/views"
)

// EmailWorker renders and delivers transactional email.
type EmailWorker struct {
	mailer mail.Mailer
	logger *zap.Logger
}

// NewEmailWorker constructs the worker.
func NewEmailWorker(mailer mail.Mailer, logger *zap.Logger) *EmailWorker {
	return &EmailWorker{mailer: mailer, logger: logger}
}

// Register binds the worker's handlers on the queue server.
func (w *EmailWorker) Register(server *queue.Server) {
	server.Register(queue.TypePasswordResetEmail, w.HandlePasswordReset)
}

// HandlePasswordReset is the asynq handler for reset emails.
func (w *EmailWorker) HandlePasswordReset(ctx context.Context, task *asynq.Task) error {
	payload, err := queue.ParsePasswordResetEmail(task)
	if err != nil {
		return err
	}
	err = w.SendPasswordReset(ctx, payload)
	if errors.Is(err, mail.ErrNotConfigured) {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}

// SendPasswordReset delivers the reset email directly. A missing mail
// configuration is logged and reported as mail.ErrNotConfigured.
func (w *EmailWorker) SendPasswordReset(ctx context.Context, p queue.PasswordResetEmail) error {
	var body bytes.Buffer
	if err := views.PasswordResetEmail(p.Name, p.ResetURL, p.ExpiresAt).Render(ctx, &body); err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	if err := w.mailer.Send(ctx, p.Email, views.PasswordResetSubject, body.String()); err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			w.logger.Warn("mail not configured, reset email dropped", zap.String("attendant_id", p.AttendantID))
		} else {
			w.logger.Error("reset email failed", zap.String("attendant_id", p.AttendantID), zap.Error(err))
		}
		return err
	}
	w.logger.Info("reset email sent", zap.String("attendant_id", p.AttendantID))
	return nil
}
