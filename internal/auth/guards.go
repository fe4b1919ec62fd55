package auth

import (
	"github.com/gofiber/fiber/v2"
)

// RequirePage guards HTML routes. Anonymous callers are handed to onDenied,
// which typically flashes a notice and redirects to the login page.
func (m *AuthMiddleware) RequirePage(onDenied fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := m.authenticate(c)
		if err != nil {
			return onDenied(c)
		}
		SetPrincipal(c, principal)
		return c.Next()
	}
}

// RedirectIfAuthenticated sends already logged-in attendants away from the
// login and registration pages.
func (m *AuthMiddleware) RedirectIfAuthenticated(target string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := m.authenticate(c); err == nil {
			return c.Redirect(target, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}
