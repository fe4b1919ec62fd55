package auth

import (
	"testing"
	"time"

	"github.com/spec-kit/attendant-desk/internal/domain"
)

func testAttendant() *domain.Attendant {
	return &domain.Attendant{ID: "att-1", Name: "Ana", Email: "ana@example.com", Sector: domain.SectorFinance}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	token, exp, err := tm.GenerateToken(testAttendant())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if d := time.Until(exp); d < 59*time.Minute || d > 61*time.Minute {
		t.Fatalf("expiry %v not ~60m away", d)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.AttendantID != "att-1" || claims.Name != "Ana" || claims.Sector != domain.SectorFinance {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("token id missing")
	}
	if r := claims.Remaining(time.Now()); r <= 0 || r > time.Hour {
		t.Fatalf("remaining = %v", r)
	}
}

func TestTokenIDsAreUnique(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	a, _, _ := tm.GenerateToken(testAttendant())
	b, _, _ := tm.GenerateToken(testAttendant())
	ca, _ := tm.ParseToken(a)
	cb, _ := tm.ParseToken(b)
	if ca == nil || cb == nil || ca.ID == cb.ID {
		t.Fatal("expected distinct token ids")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret", 60).GenerateToken(testAttendant())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewTokenManager("other", 60).ParseToken(token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	issued := time.Now().Add(-2 * time.Hour)
	tm.now = func() time.Time { return issued }
	token, _, err := tm.GenerateToken(testAttendant())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	tm.now = time.Now
	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := NewTokenManager("secret", 60).ParseToken("not.a.token"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRemainingOnNilClaims(t *testing.T) {
	var c *Claims
	if c.Remaining(time.Now()) != 0 {
		t.Fatal("nil claims should have no remaining time")
	}
}
