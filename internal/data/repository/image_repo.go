package repository

import (
	"context"
	"fmt"

	"member-directory/internal/data/entity"
	"member-directory/pkg/database"

	"go.uber.org/zap"
)

type ImageRepository interface {
	Create(ctx context.Context, image *entity.Image) error
	// FindAll returns a page of images, newest first.
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Image, error)
	Count(ctx context.Context) (int64, error)
}

type imageRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewImageRepository(db database.Querier, log *zap.Logger) ImageRepository {
	return &imageRepository{
		db:  db,
		log: log.With(zap.String("repository", "image")),
	}
}

func (r *imageRepository) Create(ctx context.Context, image *entity.Image) error {
	query := `
		INSERT INTO images (id, ref, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		image.ID,
		image.Ref,
		image.UploadedBy,
		image.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create image",
			zap.Error(err),
			zap.String("image_id", image.ID.String()),
		)
		return fmt.Errorf("create image %s: %w", image.ID.String(), err)
	}

	return nil
}

func (r *imageRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Image, error) {
	query := `
		SELECT id, ref, uploaded_by, created_at
		FROM images
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list images",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find images limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var images []*entity.Image
	for rows.Next() {
		var image entity.Image
		if err := rows.Scan(&image.ID, &image.Ref, &image.UploadedBy, &image.CreatedAt); err != nil {
			r.log.Error("Failed to scan image row", zap.Error(err))
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		images = append(images, &image)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate image rows: %w", err)
	}

	return images, nil
}

func (r *imageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM images`).Scan(&count); err != nil {
		r.log.Error("Database error counting images", zap.Error(err))
		return 0, fmt.Errorf("count images: %w", err)
	}

	return count, nil
}
