package service

import (
	"context"
	"strings"

	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/repository"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

// QuickReplyService manages canned responses.
type QuickReplyService struct {
	replies repository.QuickReplyRepository
}

// NewQuickReplyService builds the service.
func NewQuickReplyService(replies repository.QuickReplyRepository) *QuickReplyService {
	return &QuickReplyService{replies: replies}
}

// List returns every quick reply ordered by name.
func (s *QuickReplyService) List(ctx context.Context) ([]domain.QuickReply, error) {
	items, err := s.replies.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if items == nil {
		items = []domain.QuickReply{}
	}
	return items, nil
}

// Create stores a new quick reply; names are unique.
func (s *QuickReplyService) Create(ctx context.Context, attendant *domain.Attendant, name, content string) (*domain.QuickReply, error) {
	name = strings.TrimSpace(name)
	content = strings.TrimSpace(content)
	if name == "" || content == "" {
		return nil, apperrors.NewValidationError("Nome e conteúdo são obrigatórios.",
			map[string]any{"required": []string{"name", "content"}})
	}
	reply := &domain.QuickReply{Name: name, Content: content}
	if attendant != nil {
		id := attendant.ID
		reply.CreatedBy = &id
	}
	if err := s.replies.Create(ctx, reply); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("Já existe uma mensagem pronta com esse nome.", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	return reply, nil
}
