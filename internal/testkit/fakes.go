package testkit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/spec-kit/attendant-desk/internal/messaging"
	"github.com/spec-kit/attendant-desk/internal/queue"
)

// Sender records outbound messages instead of calling the provider.
type Sender struct {
	mu   sync.Mutex
	sent []messaging.OutboundMessage
	// Err, when set, is returned by every Send.
	Err error
}

// Send records msg and returns a fake provider id.
func (s *Sender) Send(_ context.Context, msg messaging.OutboundMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.sent = append(s.sent, msg)
	return "SM" + strconv.Itoa(len(s.sent)), nil
}

// Sent returns a copy of the recorded messages.
func (s *Sender) Sent() []messaging.OutboundMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]messaging.OutboundMessage(nil), s.sent...)
}

// Revocations is an in-memory session denylist.
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

// Revoke remembers the token id.
func (r *Revocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revoked == nil {
		r.revoked = map[string]time.Duration{}
	}
	r.revoked[tokenID] = ttl
	return nil
}

// IsRevoked reports whether the token id was revoked.
func (r *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[tokenID]
	return ok, nil
}

// Email is one recorded message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer records delivered email.
type Mailer struct {
	mu   sync.Mutex
	sent []Email
	// Err, when set, is returned by every Send.
	Err error
}

// Send records the email.
func (m *Mailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, Email{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the recorded email.
func (m *Mailer) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.sent...)
}

// ResetQueue records enqueued reset emails.
type ResetQueue struct {
	mu   sync.Mutex
	jobs []queue.PasswordResetEmail
	// Err, when set, is returned by every enqueue.
	Err error
}

// EnqueuePasswordReset records the job.
func (q *ResetQueue) EnqueuePasswordReset(_ context.Context, p queue.PasswordResetEmail) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return "", q.Err
	}
	q.jobs = append(q.jobs, p)
	return "task-" + strconv.Itoa(len(q.jobs)), nil
}

// Jobs returns a copy of the recorded jobs.
func (q *ResetQueue) Jobs() []queue.PasswordResetEmail {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queue.PasswordResetEmail(nil), q.jobs...)
}
