package mail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/attendant-desk/internal/config"
)

func TestSendWithoutSettings(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{Server: "smtp.example.com"})
	err := m.Send(context.Background(), "ana@example.com", "Oi", "<p>oi</p>")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestBuildMessage(t *testing.T) {
	date := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	raw := string(BuildMessage("desk@example.com", "ana@example.com", "Redefinição de Senha", "<p>a</p>\n<p>b</p>", date))

	for _, want := range []string{
		"From: desk@example.com\r\n",
		"To: ana@example.com\r\n",
		"Subject: =?utf-8?q?",
		"Content-Type: text/html; charset=\"utf-8\"\r\n",
		"\r\n\r\n<p>a</p>\r\n<p>b</p>",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}
}
