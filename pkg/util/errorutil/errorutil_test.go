package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"domain error passes through", NewConflict("email taken", nil), "CONFLICT", http.StatusConflict},
		{"wrapped domain error", fmt.Errorf("register: %w", NewUnauthorized("nope")), "UNAUTHORIZED", http.StatusUnauthorized},
		{"fiber error keeps status", fiber.NewError(http.StatusBadRequest, "invalid payload"), "VALIDATION_FAILED", http.StatusBadRequest},
		{"no rows becomes not found", fmt.Errorf("get: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"unique violation becomes conflict", &pgconn.PgError{Code: "23505", ConstraintName: "attendants_email_key"}, "CONFLICT", http.StatusConflict},
		{"anything else is internal", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDomainError(tc.err)
			if got.Code != tc.wantCode || got.HTTPStatus != tc.wantStatus {
				t.Fatalf("got %s/%d, want %s/%d", got.Code, got.HTTPStatus, tc.wantCode, tc.wantStatus)
			}
		})
	}
}

func TestToDomainErrorNil(t *testing.T) {
	if ToDomainError(nil) != nil {
		t.Fatal("expected nil")
	}
	if MapError(nil) != nil {
		t.Fatal("expected nil error")
	}
}

func TestUpstreamErrorUnwraps(t *testing.T) {
	cause := errors.New("twilio 21211")
	err := NewUpstreamError("failed to send message", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected upstream error to wrap cause")
	}
	if ToDomainError(err).HTTPStatus != http.StatusBadGateway {
		t.Fatal("expected 502")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Fatal("expected unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation is not a unique violation")
	}
}
