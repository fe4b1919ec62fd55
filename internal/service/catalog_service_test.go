package service

import (
	"context"
	"net/http"
	"testing"
)

func TestContactsSaveAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.contacts.SaveName(ctx, "+5511", "Zeca"); err != nil {
		t.Fatalf("SaveName: %v", err)
	}
	if _, err := f.contacts.SaveName(ctx, "+5522", "ana"); err != nil {
		t.Fatalf("SaveName: %v", err)
	}
	if _, err := f.contacts.SaveName(ctx, "+5511", "Zé"); err != nil {
		t.Fatalf("SaveName rename: %v", err)
	}

	list, err := f.contacts.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].DisplayName != "ana" || list[1].DisplayName != "Zé" {
		t.Fatalf("contacts = %+v", list)
	}

	_, err = f.contacts.SaveName(ctx, "+5533", " ")
	assertStatus(t, err, http.StatusBadRequest)
}

func TestQuickRepliesCreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "Ana", "ana@example.com", "Geral")

	reply, err := f.replies.Create(ctx, a, "Saudação", "Olá! Como posso ajudar?")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if reply.CreatedBy == nil || *reply.CreatedBy != a.ID {
		t.Fatalf("created_by = %v", reply.CreatedBy)
	}
	if _, err := f.replies.Create(ctx, a, "Boleto", "Segue o boleto."); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = f.replies.Create(ctx, a, "Saudação", "de novo")
	assertStatus(t, err, http.StatusConflict)
	_, err = f.replies.Create(ctx, a, "", "x")
	assertStatus(t, err, http.StatusBadRequest)

	list, err := f.replies.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Boleto" {
		t.Fatalf("replies = %+v", list)
	}
}
