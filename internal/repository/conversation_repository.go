package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendant-desk/internal/domain"
)

// ConversationRepository reads and writes the BOT/HUMAN handoff rows.
type ConversationRepository interface {
	GetStatus(ctx context.Context, contactNumber string) (*domain.ConversationStatus, error)
	SetStatus(ctx context.Context, contactNumber string, state domain.ConversationState, sector *domain.Sector) error
	ListActive(ctx context.Context, sector domain.Sector) ([]domain.ConversationSummary, error)
}

type conversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository builds repository.
func NewConversationRepository(pool *pgxpool.Pool) ConversationRepository {
	return &conversationRepository{pool: pool}
}

// GetStatus returns the stored row, or a BOT status when the contact has none.
func (r *conversationRepository) GetStatus(ctx context.Context, contactNumber string) (*domain.ConversationStatus, error) {
	const query = `
        SELECT contact_number, status, assigned_sector, updated_at
        FROM conversation_status WHERE contact_number=$1`

	var status domain.ConversationStatus
	err := r.pool.QueryRow(ctx, query, contactNumber).Scan(
		&status.ContactNumber,
		&status.State,
		&status.AssignedSector,
		&status.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.ConversationStatus{ContactNumber: contactNumber, State: domain.StateBot}, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// SetStatus upserts the single row kept per contact number. A nil sector
// leaves the current assignment untouched.
func (r *conversationRepository) SetStatus(ctx context.Context, contactNumber string, state domain.ConversationState, sector *domain.Sector) error {
	const query = `
        INSERT INTO conversation_status (contact_number, status, assigned_sector, updated_at)
        VALUES ($1,$2,$3,NOW())
        ON CONFLICT (contact_number) DO UPDATE
        SET status=EXCLUDED.status,
            assigned_sector=COALESCE(EXCLUDED.assigned_sector, conversation_status.assigned_sector),
            updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, contactNumber, state, sector)
	return err
}

func (r *conversationRepository) ListActive(ctx context.Context, sector domain.Sector) ([]domain.ConversationSummary, error) {
	const query = `
        SELECT s.contact_number, c.display_name, m.body, m.received_at, m.sender, s.assigned_sector
        FROM conversation_status s
        LEFT JOIN saved_contacts c ON c.customer_number = s.contact_number
        JOIN LATERAL (
            SELECT body, received_at, sender FROM messages
            WHERE customer_number = 'whatsapp:' || s.contact_number
            ORDER BY id DESC LIMIT 1
        ) m ON TRUE
        WHERE s.status = 'HUMAN' AND s.assigned_sector = $1
        ORDER BY m.received_at DESC`

	rows, err := r.pool.Query(ctx, query, sector)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ConversationSummary
	for rows.Next() {
		var item domain.ConversationSummary
		if err := rows.Scan(
			&item.ContactNumber,
			&item.ContactName,
			&item.LastMessageBody,
			&item.LastMessageTime,
			&item.LastMessageSender,
			&item.AssignedSector,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
