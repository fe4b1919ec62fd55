package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/attendant-desk/internal/config"
	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/events"
	"github.com/spec-kit/attendant-desk/internal/observability"
	"github.com/spec-kit/attendant-desk/internal/storage"
	"github.com/spec-kit/attendant-desk/internal/testkit"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

type fixture struct {
	store         *testkit.Store
	sender        *testkit.Sender
	revocations   *testkit.Revocations
	mailer        *testkit.Mailer
	resetQueue    *testkit.ResetQueue
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	uploads       *storage.LocalStore
	auth          *AuthService
	messaging     *MessagingService
	conversations *ConversationService
	contacts      *ContactService
	replies       *QuickReplyService
	notifications *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Config{
		Auth: config.AuthConfig{JWTSecret: "secret", SessionTTLMinutes: 60, PasswordResetTTLMinutes: 30, BcryptCost: bcrypt.MinCost},
	}
	uploads, err := storage.NewLocalStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	f := &fixture{
		store:       testkit.NewStore(),
		sender:      &testkit.Sender{},
		revocations: &testkit.Revocations{},
		mailer:      &testkit.Mailer{},
		resetQueue:  &testkit.ResetQueue{},
		dispatcher:  events.NewInMemoryDispatcher(),
		metrics:     observability.NewMetrics(),
		uploads:     uploads,
	}
	f.auth = NewAuthService(cfg, AuthDependencies{
		AttendantRepo:     f.store.Attendants(),
		PasswordResetRepo: f.store.Resets(),
		Revocations:       f.revocations,
		Dispatcher:        f.dispatcher,
		Logger:            zap.NewNop(),
	})
	f.messaging = NewMessagingService(MessagingDependencies{
		Sender:        f.sender,
		MessageRepo:   f.store.Messages(),
		MediaRepo:     f.store.Media(),
		Store:         uploads,
		Dispatcher:    f.dispatcher,
		Metrics:       f.metrics,
		PublicBaseURL: "https://desk.example.com/",
	})
	f.conversations = NewConversationService(ConversationDependencies{
		ConversationRepo: f.store.Conversations(),
		MessageRepo:      f.store.Messages(),
		MediaRepo:        f.store.Media(),
		Messaging:        f.messaging,
		Dispatcher:       f.dispatcher,
	})
	f.contacts = NewContactService(f.store.Contacts())
	f.replies = NewQuickReplyService(f.store.QuickReplies())
	f.notifications = NewNotificationService(f.dispatcher, zap.NewNop(), f.resetQueue, nil, "https://desk.example.com")
	f.notifications.RegisterHandlers()
	return f
}

func (f *fixture) register(t *testing.T, name, email, sector string) *domain.Attendant {
	t.Helper()
	a, err := f.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "senha123", Sector: sector})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return a
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d", status)
	}
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("error %v is not a DomainError", err)
	}
	if de.HTTPStatus != status {
		t.Fatalf("status = %d (%s), want %d", de.HTTPStatus, de.Message, status)
	}
}

