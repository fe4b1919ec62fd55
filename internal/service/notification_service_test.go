package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/attendant-desk/internal/events"
	"github.com/spec-kit/attendant-desk/internal/mail"
	"github.com/spec-kit/attendant-desk/internal/queue"
	"github.com/spec-kit/attendant-desk/internal/testkit"
)

type directSender struct {
	sent []queue.PasswordResetEmail
	err  error
}

func (d *directSender) SendPasswordReset(_ context.Context, p queue.PasswordResetEmail) error {
	d.sent = append(d.sent, p)
	return d.err
}

func resetEvent() events.Event {
	return events.Event{
		Type:  events.EventPasswordResetRequested,
		Actor: events.Actor{AttendantID: "att-1"},
		Payload: events.PasswordResetRequestedPayload{
			Email: "ana@example.com", Name: "Ana", Token: "tok", ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func TestResetEmailSentInlineWithoutQueue(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	direct := &directSender{}
	NewNotificationService(d, zap.NewNop(), nil, direct, "https://desk.example.com").RegisterHandlers()

	if err := d.Publish(context.Background(), resetEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(direct.sent) != 1 || direct.sent[0].ResetURL != "https://desk.example.com/reset_password/tok" {
		t.Fatalf("sent = %+v", direct.sent)
	}
}

func TestResetEmailFallsBackWhenEnqueueFails(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	direct := &directSender{}
	q := &testkit.ResetQueue{Err: errors.New("redis down")}
	NewNotificationService(d, zap.NewNop(), q, direct, "https://desk.example.com").RegisterHandlers()

	if err := d.Publish(context.Background(), resetEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(direct.sent) != 1 {
		t.Fatalf("inline sends = %d, want 1", len(direct.sent))
	}
}

func TestResetEmailUnconfiguredMailIsNotAnError(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	direct := &directSender{err: mail.ErrNotConfigured}
	NewNotificationService(d, zap.NewNop(), nil, direct, "").RegisterHandlers()

	if err := d.Publish(context.Background(), resetEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestConversationEventsAreOnlyLogged(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	q := &testkit.ResetQueue{}
	NewNotificationService(d, zap.NewNop(), q, nil, "").RegisterHandlers()

	for _, typ := range []events.EventType{events.EventConversationStarted, events.EventConversationClosed, events.EventMessageSent} {
		if err := d.Publish(context.Background(), events.Event{Type: typ}); err != nil {
			t.Fatalf("Publish(%s): %v", typ, err)
		}
	}
	if len(q.Jobs()) != 0 {
		t.Fatal("conversation events queued email")
	}
}

func TestResetEmailSkippedWithoutPublicURL(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	q := &testkit.ResetQueue{}
	direct := &directSender{}
	NewNotificationService(d, zap.NewNop(), q, direct, "").RegisterHandlers()

	if err := d.Publish(context.Background(), resetEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(q.Jobs()) != 0 || len(direct.sent) != 0 {
		t.Fatalf("reset email with relative link delivered: jobs=%+v direct=%+v", q.Jobs(), direct.sent)
	}
}
