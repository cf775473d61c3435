package repository

import (
	"context"
	"errors"
	"fmt"

	"member-directory/internal/data/entity"
	"member-directory/pkg/database"
	"member-directory/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UpdateRequestRepository interface {
	Create(ctx context.Context, req *entity.UpdateRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.UpdateRequest, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.UpdateRequest, error)
	// FindAll lists requests joined with their owner. An empty status
	// matches every status.
	FindAll(ctx context.Context, status entity.Status, limit, offset int) ([]*entity.UpdateRequestWithOwner, error)
	Count(ctx context.Context, status entity.Status) (int64, error)
	UpdateStatus(ctx context.Context, req *entity.UpdateRequest) error
}

type updateRequestRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUpdateRequestRepository(db database.Querier, log *zap.Logger) UpdateRequestRepository {
	return &updateRequestRepository{
		db:  db,
		log: log.With(zap.String("repository", "update_request")),
	}
}

func (r *updateRequestRepository) Create(ctx context.Context, req *entity.UpdateRequest) error {
	query := `
		INSERT INTO update_requests (id, user_id, field, new_value, type, status,
		                             created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.UserID,
		req.Field,
		req.NewValue,
		req.Type,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		if mapped := mapPgError(err); utils.IsTyped(mapped) {
			return mapped
		}
		r.log.Error("Failed to create update request",
			zap.Error(err),
			zap.String("user_id", req.UserID.String()),
			zap.String("field", string(req.Field)),
		)
		return fmt.Errorf("create update request: %w", err)
	}

	return nil
}

func (r *updateRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UpdateRequest, error) {
	return r.findOne(ctx, id, "")
}

func (r *updateRequestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.UpdateRequest, error) {
	return r.findOne(ctx, id, " FOR UPDATE")
}

func (r *updateRequestRepository) findOne(ctx context.Context, id uuid.UUID, lock string) (*entity.UpdateRequest, error) {
	query := `
		SELECT id, user_id, field, new_value, type, status, created_at, updated_at
		FROM update_requests
		WHERE id = $1` + lock

	var req entity.UpdateRequest
	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&req.Field,
		&req.NewValue,
		&req.Type,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find update request",
			zap.Error(err),
			zap.String("request_id", id.String()),
		)
		return nil, fmt.Errorf("find update request %s: %w", id.String(), err)
	}

	return &req, nil
}

func (r *updateRequestRepository) FindAll(ctx context.Context, status entity.Status, limit, offset int) ([]*entity.UpdateRequestWithOwner, error) {
	query := `
		SELECT ur.id, ur.user_id, ur.field, ur.new_value, ur.type, ur.status,
		       ur.created_at, ur.updated_at,
		       u.full_name, u.mobile_number, u.location
		FROM update_requests ur
		JOIN users u ON u.id = ur.user_id
		WHERE ($1 = '' OR ur.status = $1)
		ORDER BY ur.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		r.log.Error("Failed to list update requests",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("find update requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.UpdateRequestWithOwner
	for rows.Next() {
		var req entity.UpdateRequestWithOwner
		err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.Field,
			&req.NewValue,
			&req.Type,
			&req.Status,
			&req.CreatedAt,
			&req.UpdatedAt,
			&req.Owner.FullName,
			&req.Owner.MobileNumber,
			&req.Owner.Location,
		)
		if err != nil {
			r.log.Error("Failed to scan update request row", zap.Error(err))
			return nil, fmt.Errorf("scan update request row: %w", err)
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate update request rows: %w", err)
	}

	return requests, nil
}

func (r *updateRequestRepository) Count(ctx context.Context, status entity.Status) (int64, error) {
	query := `SELECT COUNT(*) FROM update_requests WHERE ($1 = '' OR status = $1)`

	var count int64
	if err := r.db.QueryRow(ctx, query, string(status)).Scan(&count); err != nil {
		r.log.Error("Database error counting update requests", zap.Error(err))
		return 0, fmt.Errorf("count update requests: %w", err)
	}

	return count, nil
}

// UpdateStatus records a resolution. Only pending rows are touched, so a
// request is resolved at most once even without a lock.
func (r *updateRequestRepository) UpdateStatus(ctx context.Context, req *entity.UpdateRequest) error {
	query := `
		UPDATE update_requests
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, req.ID, req.Status, req.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update request status",
			zap.Error(err),
			zap.String("request_id", req.ID.String()),
		)
		return fmt.Errorf("update request %s: %w", req.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return utils.NewConflictError("update request %s is already resolved", req.ID.String())
	}

	return nil
}
