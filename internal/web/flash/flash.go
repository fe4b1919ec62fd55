// Package flash provides one-time page notices persisted across redirects.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the cookie used for one-time notices.
const CookieName = "attendant_flash"

// Kind classifies notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindDanger  Kind = "danger"
)

// Notice is a single message shown on the next page render.
type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Write stores a notice cookie for the next page render.
func Write(c *fiber.Ctx, kind Kind, message string) {
	notice, ok := normalize(Notice{Kind: kind, Message: message})
	if !ok {
		return
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ReadAndClear returns the pending notice, if any, and expires the cookie.
func ReadAndClear(c *fiber.Ctx) (Notice, bool) {
	raw := c.Cookies(CookieName)
	if raw == "" {
		return Notice{}, false
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return decode(raw)
}

func decode(raw string) (Notice, bool) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return Notice{}, false
	}
	var notice Notice
	if err := json.Unmarshal(decoded, &notice); err != nil {
		return Notice{}, false
	}
	return normalize(notice)
}

func normalize(notice Notice) (Notice, bool) {
	notice.Message = strings.TrimSpace(notice.Message)
	if notice.Message == "" {
		return Notice{}, false
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindInfo, KindWarning, KindDanger:
		return notice, true
	default:
		return Notice{}, false
	}
}
