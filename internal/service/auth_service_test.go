package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/repository"
)

func TestRegisterMapsSectorAndHashesPassword(t *testing.T) {
	f := newFixture(t)
	fin := f.register(t, "Ana", "ana@example.com", "Financeiro")
	gen := f.register(t, "Bia", "bia@example.com", "Suporte")

	if fin.Sector != domain.SectorFinance || gen.Sector != domain.SectorGeneral {
		t.Fatalf("sectors = %q, %q", fin.Sector, gen.Sector)
	}
	if fin.PasswordHash == "" || fin.PasswordHash == "senha123" {
		t.Fatal("password not hashed")
	}
}

func TestRegisterRejectsDuplicatesAndBlanks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@example.com", "Geral")

	_, err := f.auth.Register(ctx, RegisterInput{Name: "Outra", Email: "ANA@example.com", Password: "x"})
	assertStatus(t, err, http.StatusConflict)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "Ana", Email: "ana2@example.com", Password: "x"})
	assertStatus(t, err, http.StatusConflict)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "", Email: "c@example.com", Password: "x"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "C", Email: "not-an-email", Password: "x"})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestLoginRejectsWrongPasswordAndUnknownEmailAlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@example.com", "Geral")

	a, token, _, err := f.auth.Login(ctx, "ana@example.com", "senha123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if a.Name != "Ana" || token == "" {
		t.Fatalf("login = %+v, token %q", a, token)
	}

	_, _, _, wrong := f.auth.Login(ctx, "ana@example.com", "errada")
	_, _, _, unknown := f.auth.Login(ctx, "ninguem@example.com", "senha123")
	assertStatus(t, wrong, http.StatusUnauthorized)
	assertStatus(t, unknown, http.StatusUnauthorized)
	if wrong.Error() != unknown.Error() {
		t.Fatalf("errors differ: %q vs %q", wrong, unknown)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@example.com", "Geral")
	_, token, _, err := f.auth.Login(ctx, "ana@example.com", "senha123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := f.auth.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if err := f.auth.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	revoked, _ := f.revocations.IsRevoked(ctx, claims.ID)
	if !revoked {
		t.Fatal("session not revoked")
	}
	if err := f.auth.Logout(ctx, nil); err != nil {
		t.Fatalf("Logout(nil): %v", err)
	}
}

func TestRequestPasswordResetQueuesEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "Ana", "ana@example.com", "Geral")

	if err := f.auth.RequestPasswordReset(ctx, "ana@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	tokens := f.store.ResetTokens()
	if len(tokens) != 1 || tokens[0].AttendantID != a.ID {
		t.Fatalf("tokens = %+v", tokens)
	}
	jobs := f.resetQueue.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(jobs))
	}
	want := "https://desk.example.com/reset_password/" + tokens[0].Token
	if jobs[0].ResetURL != want || jobs[0].Email != "ana@example.com" || jobs[0].AttendantID != a.ID {
		t.Fatalf("job = %+v, want url %s", jobs[0], want)
	}
}

func TestRequestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	f := newFixture(t)
	if err := f.auth.RequestPasswordReset(context.Background(), "ninguem@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if len(f.store.ResetTokens()) != 0 || len(f.resetQueue.Jobs()) != 0 {
		t.Fatal("unknown email must not create tokens or emails")
	}
}

func TestResetPasswordFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@example.com", "Geral")
	if err := f.auth.RequestPasswordReset(ctx, "ana@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	token := f.store.ResetTokens()[0].Token

	if _, err := f.auth.ValidateResetToken(ctx, token); err != nil {
		t.Fatalf("ValidateResetToken: %v", err)
	}
	assertStatus(t, f.auth.ResetPassword(ctx, token, "nova", "outra"), http.StatusBadRequest)
	assertStatus(t, f.auth.ResetPassword(ctx, token, "", ""), http.StatusBadRequest)

	if err := f.auth.ResetPassword(ctx, token, "nova-senha", "nova-senha"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, _, _, err := f.auth.Login(ctx, "ana@example.com", "nova-senha"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, _, err := f.auth.Login(ctx, "ana@example.com", "senha123"); err == nil {
		t.Fatal("old password still accepted")
	}

	if f.store.ResetTokens()[0].UsedAt == nil {
		t.Fatal("token not marked used")
	}
	assertStatus(t, f.auth.ResetPassword(ctx, token, "x", "x"), http.StatusBadRequest)
}

func TestResetTokenRejectedWhenExpiredOrUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@example.com", "Geral")
	_ = f.auth.RequestPasswordReset(ctx, "ana@example.com")
	token := f.store.ResetTokens()[0].Token
	f.store.ExpireResetToken(token)

	_, err := f.auth.ValidateResetToken(ctx, token)
	assertStatus(t, err, http.StatusBadRequest)
	_, err = f.auth.ValidateResetToken(ctx, "nao-existe")
	assertStatus(t, err, http.StatusBadRequest)
}

type failingPasswordUpdates struct {
	repository.AttendantRepository
}

func (failingPasswordUpdates) UpdatePassword(context.Context, string, string) error {
	return errors.New("connection reset")
}

func TestResetPasswordKeepsTokenWhenUpdateFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@example.com", "Geral")
	if err := f.auth.RequestPasswordReset(ctx, "ana@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	token := f.store.ResetTokens()[0].Token

	f.auth.attendants = failingPasswordUpdates{f.store.Attendants()}
	assertStatus(t, f.auth.ResetPassword(ctx, token, "nova-senha", "nova-senha"), http.StatusInternalServerError)
	if f.store.ResetTokens()[0].UsedAt != nil {
		t.Fatal("token spent although the password was not changed")
	}

	f.auth.attendants = f.store.Attendants()
	if err := f.auth.ResetPassword(ctx, token, "nova-senha", "nova-senha"); err != nil {
		t.Fatalf("retry ResetPassword: %v", err)
	}
	if f.store.ResetTokens()[0].UsedAt == nil {
		t.Fatal("token not marked used after success")
	}
}
