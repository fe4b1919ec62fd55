package dto

import (
	"time"

	"github.com/spec-kit/attendant-desk/internal/domain"
)

// RegisterRequest payload for new attendants. Form posts use "nome" and
// "setor" as field names.
type RegisterRequest struct {
	Name     string `json:"name" form:"nome"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Sector   string `json:"sector" form:"setor"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ForgotPasswordRequest payload for requesting a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

// ResetPasswordRequest payload for choosing a new password.
type ResetPasswordRequest struct {
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AttendantResponse is the public view of an attendant.
type AttendantResponse struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Sector domain.Sector `json:"sector"`
}

// NewAttendantResponse maps an attendant.
func NewAttendantResponse(a *domain.Attendant) AttendantResponse {
	return AttendantResponse{ID: a.ID, Name: a.Name, Email: a.Email, Sector: a.Sector}
}
