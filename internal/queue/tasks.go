// Package queue carries background jobs through asynq on Redis.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TypePasswordResetEmail delivers a password reset link.
	TypePasswordResetEmail = "email:password_reset"

	// QueueMail is the queue email jobs are placed on.
	QueueMail = "mail"
)

// PasswordResetEmail is the payload of a TypePasswordResetEmail task.
type PasswordResetEmail struct {
	AttendantID string    `json:"attendant_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ResetURL    string    `json:"reset_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (p PasswordResetEmail) validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return errors.New("recipient email required")
	}
	if strings.TrimSpace(p.ResetURL) == "" {
		return errors.New("reset url required")
	}
	return nil
}

// NewPasswordResetEmailTask encodes the payload as an asynq task.
func NewPasswordResetEmailTask(p PasswordResetEmail) (*asynq.Task, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePasswordResetEmail, payload), nil
}

// ParsePasswordResetEmail decodes a task payload. Malformed payloads are
// wrapped with asynq.SkipRetry since retrying cannot fix them.
func ParsePasswordResetEmail(task *asynq.Task) (PasswordResetEmail, error) {
	var p PasswordResetEmail
	if task.Type() != TypePasswordResetEmail {
		return p, fmt.Errorf("unexpected task type %q: %w", task.Type(), asynq.SkipRetry)
	}
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := p.validate(); err != nil {
		return p, fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return p, nil
}
