package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendant-desk/internal/domain"
)

// ContactRepository stores display names for customer numbers.
type ContactRepository interface {
	Upsert(ctx context.Context, contact *domain.SavedContact) error
	List(ctx context.Context) ([]domain.SavedContact, error)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository constructs repository.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

func (r *contactRepository) Upsert(ctx context.Context, contact *domain.SavedContact) error {
	const query = `
        INSERT INTO saved_contacts (customer_number, display_name, updated_at)
        VALUES ($1,$2,NOW())
        ON CONFLICT (customer_number) DO UPDATE
        SET display_name=EXCLUDED.display_name, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, contact.CustomerNumber, contact.DisplayName).Scan(&contact.UpdatedAt)
}

func (r *contactRepository) List(ctx context.Context) ([]domain.SavedContact, error) {
	const query = `
        SELECT customer_number, display_name, updated_at
        FROM saved_contacts ORDER BY lower(display_name) ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SavedContact
	for rows.Next() {
		var contact domain.SavedContact
		if err := rows.Scan(&contact.CustomerNumber, &contact.DisplayName, &contact.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, contact)
	}
	return result, rows.Err()
}
