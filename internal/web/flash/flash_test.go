package flash

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestWriteThenRead(t *testing.T) {
	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		Write(c, KindSuccess, "Cadastro realizado com sucesso!")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/read", func(c *fiber.Ctx) error {
		notice, ok := ReadAndClear(c)
		if !ok {
			return c.SendString("none")
		}
		return c.SendString(string(notice.Kind) + ":" + notice.Message)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil))
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName {
			cookie = ck
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("flash cookie not set")
	}

	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie.Value})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "success:Cadastro realizado com sucesso!" {
		t.Fatalf("body = %q", body)
	}
	if !strings.Contains(resp.Header.Get(fiber.HeaderSetCookie), CookieName+"=;") {
		t.Fatalf("flash cookie not cleared: %q", resp.Header.Get(fiber.HeaderSetCookie))
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "%%%", "bm90IGpzb24", "eyJraW5kIjoid2VpcmQiLCJtZXNzYWdlIjoieCJ9"} {
		if _, ok := decode(raw); ok {
			t.Fatalf("decode(%q) accepted", raw)
		}
	}
}

func TestReadAndClearExpiresCookieSiteWide(t *testing.T) {
	app := fiber.New()
	app.Get("/reset_password/:token", func(c *fiber.Ctx) error {
		ReadAndClear(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/reset_password/abc", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "eyJraW5kIjoiaW5mbyIsIm1lc3NhZ2UiOiJvaSJ9"})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	header := strings.ToLower(resp.Header.Get(fiber.HeaderSetCookie))
	if !strings.HasPrefix(header, CookieName+"=;") {
		t.Fatalf("flash cookie not cleared: %q", header)
	}
	if !strings.Contains(header, "path=/;") && !strings.HasSuffix(header, "path=/") {
		t.Fatalf("deletion cookie not scoped to /: %q", header)
	}
	if !strings.Contains(header, "expires=") {
		t.Fatalf("deletion cookie has no expiry: %q", header)
	}
}
