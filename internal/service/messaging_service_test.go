package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/spec-kit/attendant-desk/internal/domain"
)

func TestSendTextSignsOutboundButStoresUnsignedBody(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "Ana", "ana@example.com", "Financeiro")

	res, err := f.messaging.SendText(context.Background(), a, "+5511999990000", "Seu boleto foi enviado.")
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if res.SID != "SM1" {
		t.Fatalf("sid = %q", res.SID)
	}

	sent := f.sender.Sent()
	if len(sent) != 1 || sent[0].To != "whatsapp:+5511999990000" || sent[0].Body != "[Ana]: Seu boleto foi enviado." {
		t.Fatalf("sent = %+v", sent)
	}

	msgs := f.store.AllMessages()
	if len(msgs) != 1 {
		t.Fatalf("stored %d messages", len(msgs))
	}
	m := msgs[0]
	if m.Body != "Seu boleto foi enviado." || m.Sender != domain.SenderHuman || m.Type != "RESPOSTA_HUMANA" {
		t.Fatalf("stored = %+v", m)
	}
	if m.CustomerNumber != "whatsapp:+5511999990000" || m.Sector == nil || *m.Sector != domain.SectorFinance {
		t.Fatalf("stored addressing = %+v", m)
	}
	if f.metrics.Snapshot().Outbound["text|ok"] != 1 {
		t.Fatalf("outbound metrics = %v", f.metrics.Snapshot().Outbound)
	}
}

func TestSendTextValidatesInput(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "Ana", "ana@example.com", "Geral")
	_, err := f.messaging.SendText(context.Background(), a, "", "oi")
	assertStatus(t, err, http.StatusBadRequest)
	_, err = f.messaging.SendText(context.Background(), a, "+55", "  ")
	assertStatus(t, err, http.StatusBadRequest)
	if len(f.sender.Sent()) != 0 {
		t.Fatal("invalid input reached the provider")
	}
}

func TestSendTextProviderFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "Ana", "ana@example.com", "Geral")
	f.sender.Err = errors.New("21211 invalid To")

	_, err := f.messaging.SendText(context.Background(), a, "+55", "oi")
	assertStatus(t, err, http.StatusBadGateway)
	if len(f.store.AllMessages()) != 0 {
		t.Fatal("failed send was stored")
	}
	if f.metrics.Snapshot().Outbound["text|failed"] != 1 {
		t.Fatalf("outbound metrics = %v", f.metrics.Snapshot().Outbound)
	}
}

func TestSendMediaStoresFileAndMetadata(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "Ana", "ana@example.com", "Geral")
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{1}, 16)...)

	res, err := f.messaging.SendMedia(context.Background(), a, MediaInput{
		To: "+5511", Caption: "comprovante", FileName: "../meu comprovante.png", Content: bytes.NewReader(png),
	})
	if err != nil {
		t.Fatalf("SendMedia: %v", err)
	}

	sent := f.sender.Sent()
	if len(sent) != 1 || len(sent[0].MediaURLs) != 1 {
		t.Fatalf("sent = %+v", sent)
	}
	url := sent[0].MediaURLs[0]
	if !strings.HasPrefix(url, "https://desk.example.com/uploads/") || !strings.HasSuffix(url, "_meu_comprovante.png") {
		t.Fatalf("media url = %q", url)
	}
	if sent[0].Body != "comprovante" {
		t.Fatalf("caption = %q", sent[0].Body)
	}

	if res.Message.Type != "MIDIA_HUMANA" || res.Message.MediaURL == nil || *res.Message.MediaURL != url {
		t.Fatalf("stored = %+v", res.Message)
	}
	media := f.store.AllMedia()
	if len(media) != 1 || media[0].MessageID != res.Message.ID || media[0].MimeType != "image/png" || media[0].FileName != "meu_comprovante.png" {
		t.Fatalf("media = %+v", media)
	}
	if _, err := os.Stat(f.uploads.Dir() + "/" + media[0].StorageKey); err != nil {
		t.Fatalf("upload missing: %v", err)
	}
}

func TestSendMediaRequiresPublicURL(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "Ana", "ana@example.com", "Geral")
	f.messaging.publicBaseURL = ""

	_, err := f.messaging.SendMedia(context.Background(), a, MediaInput{To: "+55", FileName: "a.txt", Content: strings.NewReader("x")})
	assertStatus(t, err, http.StatusInternalServerError)
	if !strings.Contains(err.Error(), MsgPublicURLMissing) {
		t.Fatalf("err = %v", err)
	}
}

func TestSendMediaProviderFailureRemovesUpload(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "Ana", "ana@example.com", "Geral")
	f.sender.Err = errors.New("down")

	_, err := f.messaging.SendMedia(context.Background(), a, MediaInput{To: "+55", FileName: "a.txt", Content: strings.NewReader("x")})
	assertStatus(t, err, http.StatusBadGateway)

	entries, _ := os.ReadDir(f.uploads.Dir())
	if len(entries) != 0 {
		t.Fatalf("upload dir has %d files after failure", len(entries))
	}
	if len(f.store.AllMessages()) != 0 || len(f.store.AllMedia()) != 0 {
		t.Fatal("failed media send was stored")
	}
}

func TestSendMediaRejectsUnusableNames(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "Ana", "ana@example.com", "Geral")
	_, err := f.messaging.SendMedia(context.Background(), a, MediaInput{To: "+55", FileName: "../..", Content: strings.NewReader("x")})
	assertStatus(t, err, http.StatusBadRequest)
}
