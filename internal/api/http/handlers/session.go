package handlers

import (
	"time"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendant-desk/internal/auth"
	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/web/flash"
	"github.com/spec-kit/attendant-desk/internal/web/views"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

// SessionCookie describes the cookie carrying the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (s SessionCookie) set(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s SessionCookie) clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// currentAttendant returns the attendant stored by the auth middleware.
func currentAttendant(c *fiber.Ctx) (*domain.Attendant, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("login required")
	}
	return principal.Attendant, nil
}

func pageState(c *fiber.Ctx) views.Page {
	var page views.Page
	if notice, ok := flash.ReadAndClear(c); ok {
		page.Notice = &notice
	}
	return page
}

func withNotice(page views.Page, kind flash.Kind, message string) views.Page {
	page.Notice = &flash.Notice{Kind: kind, Message: message}
	return page
}

func render(c *fiber.Ctx, status int, component templ.Component) error {
	c.Status(status)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return component.Render(c.UserContext(), c.Response().BodyWriter())
}

func redirectWithNotice(c *fiber.Ctx, location string, kind flash.Kind, message string) error {
	flash.Write(c, kind, message)
	return c.Redirect(location, fiber.StatusSeeOther)
}

// errorMessage is the attendant-facing text of err.
func errorMessage(err error) string {
	return apperrors.ToDomainError(err).Message
}
