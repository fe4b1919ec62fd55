package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://desk.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != "5001" {
		t.Fatalf("port = %q, want 5001", cfg.App.Port)
	}
	if cfg.App.PublicBaseURL != "https://desk.example.com" {
		t.Fatalf("public base url = %q, want trailing slash trimmed", cfg.App.PublicBaseURL)
	}
	if cfg.Auth.CookieName != "attendant_session" {
		t.Fatalf("cookie name = %q", cfg.Auth.CookieName)
	}
	if cfg.Uploads.Dir != "uploads" {
		t.Fatalf("upload dir = %q", cfg.Uploads.Dir)
	}
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed REDIS_DB")
	}
}

func TestValidateListsMissingCredentials(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, key := range []string{"AUTH_JWT_SECRET", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_PHONE_NUMBER"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %q does not mention %s", err, key)
		}
	}

	cfg.Auth.JWTSecret = "s"
	cfg.Twilio = TwilioConfig{AccountSID: "AC1", AuthToken: "t", PhoneNumber: "whatsapp:+1"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestRequestTimeout(t *testing.T) {
	if got := (AppConfig{RequestTimeoutSeconds: 0}).RequestTimeout(); got != 0 {
		t.Fatalf("timeout = %v, want 0", got)
	}
	if got := (AppConfig{RequestTimeoutSeconds: 5}).RequestTimeout(); got != 5*time.Second {
		t.Fatalf("timeout = %v, want 5s", got)
	}
}

func TestMailConfigured(t *testing.T) {
	m := MailConfig{Server: "smtp.example.com", Username: "u", Password: "p"}
	if m.Configured() {
		t.Fatal("expected unconfigured without sender")
	}
	m.DefaultSender = "desk@example.com"
	if !m.Configured() {
		t.Fatal("expected configured")
	}
}
