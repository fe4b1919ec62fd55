package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/attendant-desk/internal/auth"
	"github.com/spec-kit/attendant-desk/internal/config"
	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/events"
	"github.com/spec-kit/attendant-desk/internal/repository"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

// Messages shown to attendants on the login and reset pages.
const (
	MsgInvalidCredentials = "Email ou senha inválidos."
	MsgInvalidResetLink   = "Link de redefinição inválido ou expirado."
)

// AuthService coordinates registration, login and password reset flows.
type AuthService struct {
	attendants repository.AttendantRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	revoked    auth.RevocationStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	AttendantRepo     repository.AttendantRepository
	PasswordResetRepo repository.PasswordResetRepository
	Revocations       auth.RevocationStore
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	revoked := deps.Revocations
	if revoked == nil {
		revoked = auth.NoopRevocationStore{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resetTTL := time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AuthService{
		attendants: deps.AttendantRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes),
		revoked:    revoked,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	// Sector is the form choice, mapped with domain.SectorFromChoice.
	Sector string
}

// Register creates an attendant account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Attendant, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	missing := map[string]any{}
	if in.Name == "" {
		missing["name"] = "required"
	}
	if in.Email == "" {
		missing["email"] = "required"
	}
	if in.Password == "" {
		missing["password"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("Preencha todos os campos.", missing)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperrors.NewValidationError("Email inválido.", map[string]any{"email": "invalid"})
	}

	if _, err := s.attendants.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewConflict("O email "+in.Email+" já está cadastrado.", map[string]any{"field": "email"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if _, err := s.attendants.GetByName(ctx, in.Name); err == nil {
		return nil, apperrors.NewConflict("O nome "+in.Name+" já está em uso.", map[string]any{"field": "name"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	attendant := &domain.Attendant{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Sector:       domain.SectorFromChoice(in.Sector),
	}
	if err := s.attendants.Create(ctx, attendant); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("Email ou nome já cadastrado.", nil)
		}
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("attendant registered", zap.String("attendant_id", attendant.ID), zap.String("sector", string(attendant.Sector)))
	return attendant, nil
}

// Login authenticates an attendant. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Attendant, string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(MsgInvalidCredentials)
	}

	attendant, err := s.attendants.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized(MsgInvalidCredentials)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(attendant.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(MsgInvalidCredentials)
	}

	token, exp, err := s.tokenMgr.GenerateToken(attendant)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return attendant, token, exp, nil
}

// Logout revokes the session for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// RequestPasswordReset issues a reset token when the email belongs to an
// attendant. It reports success for unknown emails too.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.NewValidationError("Informe o email.", map[string]any{"email": "required"})
	}

	attendant, err := s.attendants.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return apperrors.MapError(err)
	}

	token := &domain.PasswordResetToken{
		AttendantID: attendant.ID,
		Token:       uuid.NewString(),
		ExpiresAt:   s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:  events.EventPasswordResetRequested,
		Actor: events.ActorFor(attendant),
		Payload: events.PasswordResetRequestedPayload{
			Email:     attendant.Email,
			Name:      attendant.Name,
			Token:     token.Token,
			ExpiresAt: token.ExpiresAt,
		},
	})
	return nil
}

// ValidateResetToken returns the token when it exists, is unused and has not expired.
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.NewValidationError(MsgInvalidResetLink, nil)
	}
	found, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError(MsgInvalidResetLink, nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !found.Usable(s.now()) {
		return nil, apperrors.NewValidationError(MsgInvalidResetLink, nil)
	}
	return found, nil
}

// ResetPassword sets a new password using a reset token. The token is spent
// only once the password is stored; MarkUsed succeeds at most once per token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	found, err := s.ValidateResetToken(ctx, token)
	if err != nil {
		return err
	}
	if newPassword == "" {
		return apperrors.NewValidationError("Informe a nova senha.", map[string]any{"new_password": "required"})
	}
	if newPassword != confirm {
		return apperrors.NewValidationError("As senhas não coincidem.", map[string]any{"confirm_password": "mismatch"})
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.attendants.UpdatePassword(ctx, found.AttendantID, hash); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.resets.MarkUsed(ctx, found.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError(MsgInvalidResetLink, nil)
		}
		return apperrors.MapError(err)
	}
	s.logger.Info("password reset completed", zap.String("attendant_id", found.AttendantID))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
