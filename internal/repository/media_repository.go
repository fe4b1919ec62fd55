package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendant-desk/internal/domain"
)

// MediaRepository persists metadata for uploaded media files.
type MediaRepository interface {
	Create(ctx context.Context, file *domain.MediaFile) error
	ListByMessages(ctx context.Context, messageIDs []int64) ([]domain.MediaFile, error)
}

type mediaRepository struct {
	pool *pgxpool.Pool
}

// NewMediaRepository constructs repository.
func NewMediaRepository(pool *pgxpool.Pool) MediaRepository {
	return &mediaRepository{pool: pool}
}

func (r *mediaRepository) Create(ctx context.Context, file *domain.MediaFile) error {
	const query = `
        INSERT INTO media_files (message_id, storage_key, file_name, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		file.MessageID,
		file.StorageKey,
		file.FileName,
		file.MimeType,
		file.SizeBytes,
	).Scan(&file.ID, &file.CreatedAt)
}

func (r *mediaRepository) ListByMessages(ctx context.Context, messageIDs []int64) ([]domain.MediaFile, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	const query = `
        SELECT id, message_id, storage_key, file_name, mime_type, size_bytes, created_at
        FROM media_files WHERE message_id = ANY($1) ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, messageIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MediaFile
	for rows.Next() {
		var file domain.MediaFile
		if err := rows.Scan(
			&file.ID,
			&file.MessageID,
			&file.StorageKey,
			&file.FileName,
			&file.MimeType,
			&file.SizeBytes,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}
