package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/testkit"
)

type middlewareFixture struct {
	app     *fiber.App
	tokens  *TokenManager
	revoked *testkit.Revocations
	token   string
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()
	store := testkit.NewStore()
	attendant := &domain.Attendant{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Sector: domain.SectorGeneral}
	if err := store.Attendants().Create(context.Background(), attendant); err != nil {
		t.Fatalf("seed attendant: %v", err)
	}

	tokens := NewTokenManager("secret", 60)
	token, _, err := tokens.GenerateToken(attendant)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	revoked := &testkit.Revocations{}
	mw := NewAuthMiddleware(tokens, store.Attendants(), revoked, "session")

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		return c.SendStatus(fiber.StatusUnauthorized)
	}})
	app.Get("/api/me", mw.Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(p.Attendant.Name)
	})
	app.Get("/page", mw.RequirePage(func(c *fiber.Ctx) error {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/login", mw.RedirectIfAuthenticated("/"), func(c *fiber.Ctx) error {
		return c.SendString("login form")
	})
	return &middlewareFixture{app: app, tokens: tokens, revoked: revoked, token: token}
}

func (f *middlewareFixture) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestHandleAcceptsBearerAndCookie(t *testing.T) {
	f := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	if resp := f.do(t, req); resp.StatusCode != http.StatusOK {
		t.Fatalf("bearer status = %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: f.token})
	if resp := f.do(t, req); resp.StatusCode != http.StatusOK {
		t.Fatalf("cookie status = %d", resp.StatusCode)
	}
}

func TestHandleRejectsMissingAndMalformed(t *testing.T) {
	f := newMiddlewareFixture(t)

	if resp := f.do(t, httptest.NewRequest(http.MethodGet, "/api/me", nil)); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Token "+f.token)
	if resp := f.do(t, req); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("malformed header status = %d", resp.StatusCode)
	}
}

func TestHandleRejectsRevokedToken(t *testing.T) {
	f := newMiddlewareFixture(t)
	claims, err := f.tokens.ParseToken(f.token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	_ = f.revoked.Revoke(context.Background(), claims.ID, claims.Remaining(f.tokens.now()))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	if resp := f.do(t, req); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked status = %d", resp.StatusCode)
	}
}

func TestRequirePageRedirectsAnonymous(t *testing.T) {
	f := newMiddlewareFixture(t)

	resp := f.do(t, httptest.NewRequest(http.MethodGet, "/page", nil))
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("status = %d location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: f.token})
	if resp := f.do(t, req); resp.StatusCode != http.StatusOK {
		t.Fatalf("logged-in status = %d", resp.StatusCode)
	}
}

func TestRedirectIfAuthenticated(t *testing.T) {
	f := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: f.token})
	resp := f.do(t, req)
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("status = %d location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	if resp := f.do(t, httptest.NewRequest(http.MethodGet, "/login", nil)); resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymous status = %d", resp.StatusCode)
	}
}
