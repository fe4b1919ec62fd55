package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendant-desk/internal/domain"
)

// QuickReplyRepository stores canned responses.
type QuickReplyRepository interface {
	Create(ctx context.Context, reply *domain.QuickReply) error
	List(ctx context.Context) ([]domain.QuickReply, error)
}

type quickReplyRepository struct {
	pool *pgxpool.Pool
}

// NewQuickReplyRepository constructs repository.
func NewQuickReplyRepository(pool *pgxpool.Pool) QuickReplyRepository {
	return &quickReplyRepository{pool: pool}
}

func (r *quickReplyRepository) Create(ctx context.Context, reply *domain.QuickReply) error {
	const query = `
        INSERT INTO quick_replies (name, content, created_by)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, reply.Name, reply.Content, reply.CreatedBy).Scan(&reply.ID, &reply.CreatedAt)
}

func (r *quickReplyRepository) List(ctx context.Context) ([]domain.QuickReply, error) {
	const query = `
        SELECT id, name, content, created_by, created_at
        FROM quick_replies ORDER BY lower(name) ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.QuickReply
	for rows.Next() {
		var reply domain.QuickReply
		if err := rows.Scan(&reply.ID, &reply.Name, &reply.Content, &reply.CreatedBy, &reply.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}
