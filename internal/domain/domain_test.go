package domain

import (
	"testing"
	"time"
)

func TestSectorFromChoice(t *testing.T) {
	cases := map[string]Sector{
		"Financeiro":   SectorFinance,
		" financeiro ": SectorFinance,
		"Geral":        SectorGeneral,
		"":             SectorGeneral,
	}
	for choice, want := range cases {
		if got := SectorFromChoice(choice); got != want {
			t.Fatalf("SectorFromChoice(%q) = %q, want %q", choice, got, want)
		}
	}
}

func TestMessageDirection(t *testing.T) {
	cases := []struct {
		sender SenderRole
		want   Direction
	}{
		{SenderUser, DirectionInbound},
		{"USER", DirectionInbound},
		{SenderBot, DirectionOutbound},
		{SenderHuman, DirectionOutbound},
		{SenderSystem, DirectionOutbound},
		{"", DirectionOutbound},
	}
	for _, tc := range cases {
		if got := (Message{Sender: tc.sender}).Direction(); got != tc.want {
			t.Fatalf("direction for %q = %q, want %q", tc.sender, got, tc.want)
		}
	}
}

func TestWhatsAppAddressing(t *testing.T) {
	cases := []struct {
		in, bare, address string
	}{
		{"+5511999990000", "+5511999990000", "whatsapp:+5511999990000"},
		{"whatsapp:+5511999990000", "+5511999990000", "whatsapp:+5511999990000"},
		{" WhatsApp:+5511 ", "+5511", "whatsapp:+5511"},
	}
	for _, tc := range cases {
		if got := BareNumber(tc.in); got != tc.bare {
			t.Fatalf("BareNumber(%q) = %q, want %q", tc.in, got, tc.bare)
		}
		if got := WhatsAppAddress(tc.in); got != tc.address {
			t.Fatalf("WhatsAppAddress(%q) = %q, want %q", tc.in, got, tc.address)
		}
	}
}

func TestResetTokenUsable(t *testing.T) {
	now := time.Now()
	token := &PasswordResetToken{ExpiresAt: now.Add(time.Minute)}
	if !token.Usable(now) {
		t.Fatal("fresh token should be usable")
	}
	if token.Usable(now.Add(2 * time.Minute)) {
		t.Fatal("expired token should not be usable")
	}
	used := now
	token.UsedAt = &used
	if token.Usable(now) {
		t.Fatal("used token should not be usable")
	}
	var missing *PasswordResetToken
	if missing.Usable(now) {
		t.Fatal("nil token should not be usable")
	}
}

func TestMessageTypesMatchBotValues(t *testing.T) {
	cases := map[MessageType]string{
		MessageTypeHumanReply: "RESPOSTA_HUMANA",
		MessageTypeClosure:    "ENCERRAMENTO",
		MessageTypeMedia:      "MIDIA_HUMANA",
		MessageTypeInitial:    "CONTATO_INICIAL",
	}
	for typ, want := range cases {
		if string(typ) != want {
			t.Fatalf("message type = %q, want %q", typ, want)
		}
	}
}
