package domain

import (
	"strings"
	"time"
)

// Sector is the routing category shared by attendants and conversations.
type Sector string

const (
	SectorFinance Sector = "Atendente do Financeiro"
	SectorGeneral Sector = "Atendente Geral"
)

// SectorFromChoice maps the registration form choice to the stored sector.
// Only "Financeiro" selects the finance queue; anything else lands in the general one.
func SectorFromChoice(choice string) Sector {
	if strings.EqualFold(strings.TrimSpace(choice), "Financeiro") {
		return SectorFinance
	}
	return SectorGeneral
}

// Attendant is a human operator handling customer conversations.
type Attendant struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Sector       Sector
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PasswordResetToken is a single-use credential emailed to an attendant.
type PasswordResetToken struct {
	ID          string
	AttendantID string
	Token       string
	ExpiresAt   time.Time
	UsedAt      *time.Time
	CreatedAt   time.Time
}

// Usable reports whether the token can still reset a password at now.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t != nil && t.UsedAt == nil && now.Before(t.ExpiresAt)
}
