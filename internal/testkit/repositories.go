// Package testkit provides in-memory repository fakes for service and handler tests.
package testkit

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/repository"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// Store is a single in-memory database backing every fake repository, so
// joins such as the active conversation list behave like the SQL ones.
type Store struct {
	mu         sync.Mutex
	seq        int64
	attendants map[string]*domain.Attendant
	statuses   map[string]*domain.ConversationStatus
	messages   []domain.Message
	contacts   map[string]*domain.SavedContact
	replies    []domain.QuickReply
	resets     map[string]*domain.PasswordResetToken
	media      []domain.MediaFile
	clock      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	s := &Store{
		attendants: map[string]*domain.Attendant{},
		statuses:   map[string]*domain.ConversationStatus{},
		contacts:   map[string]*domain.SavedContact{},
		resets:     map[string]*domain.PasswordResetToken{},
	}
	// Strictly increasing timestamps keep ordering deterministic.
	s.clock = func() time.Time {
		return base.Add(time.Duration(s.seq) * time.Second)
	}
	return s
}

func (s *Store) next() (int64, time.Time) {
	s.seq++
	return s.seq, s.clock()
}

// Attendants returns the attendant repository view.
func (s *Store) Attendants() repository.AttendantRepository { return attendantRepo{s} }

// Conversations returns the conversation status repository view.
func (s *Store) Conversations() repository.ConversationRepository { return conversationRepo{s} }

// Messages returns the message repository view.
func (s *Store) Messages() repository.MessageRepository { return messageRepo{s} }

// Contacts returns the saved contact repository view.
func (s *Store) Contacts() repository.ContactRepository { return contactRepo{s} }

// QuickReplies returns the quick reply repository view.
func (s *Store) QuickReplies() repository.QuickReplyRepository { return quickReplyRepo{s} }

// Resets returns the password reset repository view.
func (s *Store) Resets() repository.PasswordResetRepository { return resetRepo{s} }

// Media returns the media metadata repository view.
func (s *Store) Media() repository.MediaRepository { return mediaRepo{s} }

// AllMessages returns a copy of every stored message in insertion order.
func (s *Store) AllMessages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.messages...)
}

// AllMedia returns a copy of every stored media record.
func (s *Store) AllMedia() []domain.MediaFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.MediaFile(nil), s.media...)
}

// ResetTokens returns a copy of every stored reset token.
func (s *Store) ResetTokens() []domain.PasswordResetToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PasswordResetToken, 0, len(s.resets))
	for _, token := range s.resets {
		out = append(out, *token)
	}
	return out
}

// ExpireResetToken moves a token's expiry into the past.
func (s *Store) ExpireResetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.resets[token]; ok {
		t.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

// SeedMessage stores a message as the bot would, e.g. an inbound customer message.
func (s *Store) SeedMessage(customerNumber string, sender domain.SenderRole, body string) domain.Message {
	msg := domain.Message{CustomerNumber: customerNumber, Sender: sender, Body: body, Type: "BOT_FLOW"}
	_ = s.Messages().Create(context.Background(), &msg)
	return msg
}

type attendantRepo struct{ s *Store }

func (r attendantRepo) Create(_ context.Context, a *domain.Attendant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.attendants {
		if strings.EqualFold(existing.Email, a.Email) {
			return uniqueViolation("attendants_email_key")
		}
		if existing.Name == a.Name {
			return uniqueViolation("attendants_name_key")
		}
	}
	id, now := r.s.next()
	a.ID = "att-" + strconv.FormatInt(id, 10)
	a.CreatedAt, a.UpdatedAt = now, now
	stored := *a
	r.s.attendants[a.ID] = &stored
	return nil
}

func (r attendantRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.attendants[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.PasswordHash = hash
	return nil
}

func (r attendantRepo) GetByID(_ context.Context, id string) (*domain.Attendant, error) {
	return r.find(func(a *domain.Attendant) bool { return a.ID == id })
}

func (r attendantRepo) GetByEmail(_ context.Context, email string) (*domain.Attendant, error) {
	return r.find(func(a *domain.Attendant) bool { return strings.EqualFold(a.Email, email) })
}

func (r attendantRepo) GetByName(_ context.Context, name string) (*domain.Attendant, error) {
	return r.find(func(a *domain.Attendant) bool { return a.Name == name })
}

func (r attendantRepo) find(match func(*domain.Attendant) bool) (*domain.Attendant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.attendants {
		if match(a) {
			found := *a
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type conversationRepo struct{ s *Store }

func (r conversationRepo) GetStatus(_ context.Context, contact string) (*domain.ConversationStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.statuses[contact]; ok {
		found := *st
		return &found, nil
	}
	return &domain.ConversationStatus{ContactNumber: contact, State: domain.StateBot}, nil
}

func (r conversationRepo) SetStatus(_ context.Context, contact string, state domain.ConversationState, sector *domain.Sector) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, now := r.s.next()
	st, ok := r.s.statuses[contact]
	if !ok {
		st = &domain.ConversationStatus{ContactNumber: contact}
		r.s.statuses[contact] = st
	}
	st.State = state
	if sector != nil {
		assigned := *sector
		st.AssignedSector = &assigned
	}
	st.UpdatedAt = now
	return nil
}

func (r conversationRepo) ListActive(_ context.Context, sector domain.Sector) ([]domain.ConversationSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.ConversationSummary
	for contact, st := range r.s.statuses {
		if st.State != domain.StateHuman || st.AssignedSector == nil || *st.AssignedSector != sector {
			continue
		}
		var last *domain.Message
		for i := range r.s.messages {
			if r.s.messages[i].CustomerNumber == domain.WhatsAppAddress(contact) {
				last = &r.s.messages[i]
			}
		}
		if last == nil {
			continue
		}
		item := domain.ConversationSummary{
			ContactNumber:     contact,
			LastMessageBody:   last.Body,
			LastMessageTime:   last.ReceivedAt,
			LastMessageSender: last.Sender,
			AssignedSector:    *st.AssignedSector,
		}
		if c, ok := r.s.contacts[contact]; ok {
			name := c.DisplayName
			item.ContactName = &name
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageTime.After(out[j].LastMessageTime) })
	return out, nil
}

type messageRepo struct{ s *Store }

func (r messageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, now := r.s.next()
	msg.ID, msg.ReceivedAt = id, now
	r.s.messages = append(r.s.messages, *msg)
	return nil
}

func (r messageRepo) ListByCustomer(_ context.Context, customer string) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Message
	for _, msg := range r.s.messages {
		if msg.CustomerNumber == customer {
			out = append(out, msg)
		}
	}
	return out, nil
}

type contactRepo struct{ s *Store }

func (r contactRepo) Upsert(_ context.Context, c *domain.SavedContact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, now := r.s.next()
	c.UpdatedAt = now
	stored := *c
	r.s.contacts[c.CustomerNumber] = &stored
	return nil
}

func (r contactRepo) List(_ context.Context) ([]domain.SavedContact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.SavedContact, 0, len(r.s.contacts))
	for _, c := range r.s.contacts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out, nil
}

type quickReplyRepo struct{ s *Store }

func (r quickReplyRepo) Create(_ context.Context, reply *domain.QuickReply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.replies {
		if existing.Name == reply.Name {
			return uniqueViolation("quick_replies_name_key")
		}
	}
	id, now := r.s.next()
	reply.ID, reply.CreatedAt = id, now
	r.s.replies = append(r.s.replies, *reply)
	return nil
}

func (r quickReplyRepo) List(_ context.Context) ([]domain.QuickReply, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := append([]domain.QuickReply(nil), r.s.replies...)
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

type resetRepo struct{ s *Store }

func (r resetRepo) Create(_ context.Context, token *domain.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, now := r.s.next()
	token.ID = "reset-" + strconv.FormatInt(id, 10)
	token.CreatedAt = now
	stored := *token
	r.s.resets[token.Token] = &stored
	return nil
}

func (r resetRepo) GetByToken(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.resets[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *t
	return &found, nil
}

func (r resetRepo) MarkUsed(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.resets {
		if t.ID == id && t.UsedAt == nil {
			now := time.Now()
			t.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

type mediaRepo struct{ s *Store }

func (r mediaRepo) Create(_ context.Context, file *domain.MediaFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, now := r.s.next()
	file.ID = "media-" + strconv.FormatInt(id, 10)
	file.CreatedAt = now
	r.s.media = append(r.s.media, *file)
	return nil
}

func (r mediaRepo) ListByMessages(_ context.Context, ids []int64) ([]domain.MediaFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.MediaFile
	for _, file := range r.s.media {
		if want[file.MessageID] {
			out = append(out, file)
		}
	}
	return out, nil
}
