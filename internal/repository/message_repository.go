package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendant-desk/internal/domain"
)

// MessageRepository manages the conversation history table shared with the bot.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByCustomer(ctx context.Context, customerNumber string) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (customer_number, sender, body, message_type, sector, media_url)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, received_at`
	return r.pool.QueryRow(ctx, query,
		msg.CustomerNumber,
		msg.Sender,
		msg.Body,
		msg.Type,
		msg.Sector,
		msg.MediaURL,
	).Scan(&msg.ID, &msg.ReceivedAt)
}

func (r *messageRepository) ListByCustomer(ctx context.Context, customerNumber string) ([]domain.Message, error) {
	const query = `
        SELECT id, customer_number, sender, body, received_at, message_type, sector, media_url
        FROM messages WHERE customer_number=$1 ORDER BY received_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, customerNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.CustomerNumber,
			&msg.Sender,
			&msg.Body,
			&msg.ReceivedAt,
			&msg.Type,
			&msg.Sector,
			&msg.MediaURL,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
