package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/repository"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated attendant.
type Principal struct {
	Attendant *domain.Attendant
	Claims    *Claims
	Token     string
}

// AuthMiddleware validates session tokens and loads principals.
type AuthMiddleware struct {
	tokens     *TokenManager
	attendants repository.AttendantRepository
	revoked    RevocationStore
	cookieName string
}

// NewAuthMiddleware constructs middleware. A nil revocation store disables revocation checks.
func NewAuthMiddleware(tokens *TokenManager, attendants repository.AttendantRepository, revoked RevocationStore, cookieName string) *AuthMiddleware {
	if revoked == nil {
		revoked = NoopRevocationStore{}
	}
	return &AuthMiddleware{tokens: tokens, attendants: attendants, revoked: revoked, cookieName: cookieName}
}

// Handle enforces authentication for API routes; failures render as JSON 401.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.authenticate(c)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Authenticate resolves the caller without aborting the request. Page
// handlers use it to decide between rendering and redirecting.
func (m *AuthMiddleware) Authenticate(c *fiber.Ctx) (*Principal, error) {
	return m.authenticate(c)
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*Principal, error) {
	raw, err := m.extractToken(c)
	if err != nil {
		return nil, err
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	revoked, err := m.revoked.IsRevoked(c.UserContext(), claims.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if revoked {
		return nil, apperrors.NewUnauthorized("session ended")
	}

	attendant, err := m.attendants.GetByID(c.UserContext(), claims.AttendantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("attendant not found")
		}
		return nil, apperrors.MapError(err)
	}

	return &Principal{Attendant: attendant, Claims: claims, Token: raw}, nil
}

func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", apperrors.NewUnauthorized("invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie := c.Cookies(m.cookieName); cookie != "" {
		return cookie, nil
	}
	return "", apperrors.NewUnauthorized("login required")
}

// SetPrincipal stores an authenticated principal on the request.
func SetPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}

// PrincipalFromContext retrieves the authenticated attendant.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil && principal.Attendant != nil
}
