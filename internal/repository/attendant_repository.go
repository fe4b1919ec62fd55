package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendant-desk/internal/domain"
)

// AttendantRepository handles persistence for attendants.
type AttendantRepository interface {
	Create(ctx context.Context, attendant *domain.Attendant) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	GetByID(ctx context.Context, id string) (*domain.Attendant, error)
	GetByEmail(ctx context.Context, email string) (*domain.Attendant, error)
	GetByName(ctx context.Context, name string) (*domain.Attendant, error)
}

type attendantRepository struct {
	pool *pgxpool.Pool
}

// NewAttendantRepository instantiates the repository.
func NewAttendantRepository(pool *pgxpool.Pool) AttendantRepository {
	return &attendantRepository{pool: pool}
}

const attendantColumns = `id, name, email, password_hash, sector, created_at, updated_at`

func (r *attendantRepository) Create(ctx context.Context, attendant *domain.Attendant) error {
	const query = `
        INSERT INTO attendants (name, email, password_hash, sector)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		attendant.Name,
		attendant.Email,
		attendant.PasswordHash,
		attendant.Sector,
	).Scan(&attendant.ID, &attendant.CreatedAt, &attendant.UpdatedAt)
}

func (r *attendantRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE attendants SET password_hash=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *attendantRepository) GetByID(ctx context.Context, id string) (*domain.Attendant, error) {
	return r.getOne(ctx, `SELECT `+attendantColumns+` FROM attendants WHERE id=$1`, id)
}

func (r *attendantRepository) GetByEmail(ctx context.Context, email string) (*domain.Attendant, error) {
	return r.getOne(ctx, `SELECT `+attendantColumns+` FROM attendants WHERE lower(email)=lower($1)`, email)
}

func (r *attendantRepository) GetByName(ctx context.Context, name string) (*domain.Attendant, error) {
	return r.getOne(ctx, `SELECT `+attendantColumns+` FROM attendants WHERE name=$1`, name)
}

func (r *attendantRepository) getOne(ctx context.Context, query string, arg any) (*domain.Attendant, error) {
	var attendant domain.Attendant
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&attendant.ID,
		&attendant.Name,
		&attendant.Email,
		&attendant.PasswordHash,
		&attendant.Sector,
		&attendant.CreatedAt,
		&attendant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &attendant, nil
}
