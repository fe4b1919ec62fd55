package service

import (
	"context"
	"strings"

	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/repository"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

// ContactService manages display names attendants give to customer numbers.
type ContactService struct {
	contacts repository.ContactRepository
}

// NewContactService builds the service.
func NewContactService(contacts repository.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// List returns saved contacts ordered by name.
func (s *ContactService) List(ctx context.Context) ([]domain.SavedContact, error) {
	items, err := s.contacts.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if items == nil {
		items = []domain.SavedContact{}
	}
	return items, nil
}

// SaveName sets or replaces the display name of a contact.
func (s *ContactService) SaveName(ctx context.Context, contact, name string) (*domain.SavedContact, error) {
	contact = domain.BareNumber(contact)
	name = strings.TrimSpace(name)
	if contact == "" || name == "" {
		return nil, apperrors.NewValidationError("Contato e nome são obrigatórios.",
			map[string]any{"required": []string{"contact_number", "contact_name"}})
	}
	saved := &domain.SavedContact{CustomerNumber: contact, DisplayName: name}
	if err := s.contacts.Upsert(ctx, saved); err != nil {
		return nil, apperrors.MapError(err)
	}
	return saved, nil
}
