package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"member-directory/internal/data/entity"
	"member-directory/pkg/database"
	"member-directory/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// UserFilter narrows list queries. Empty fields match everything.
type UserFilter struct {
	Status   entity.Status
	Location string
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByMobileNumber(ctx context.Context, mobileNumber string) (*entity.User, error)
	FindAll(ctx context.Context, filter UserFilter, limit, offset int) ([]*entity.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	// Update writes every mutable column when user.Version still matches the
	// stored row, then bumps user.Version.
	Update(ctx context.Context, user *entity.User) error
}

type userRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUserRepository(db database.Querier, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, full_name, occupation, mobile_number, date_of_birth, location,
		       password, profile_picture, status, version, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Occupation,
		&user.MobileNumber,
		&user.DateOfBirth,
		&user.Location,
		&user.PasswordHash,
		&user.ProfilePicture,
		&user.Status,
		&user.Version,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user. The unique index on mobile_number decides
// concurrent registrations; a violation comes back as a ConflictError.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, full_name, occupation, mobile_number, date_of_birth,
		                   location, password, profile_picture, status, version,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if user.Version == 0 {
		user.Version = 1
	}

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.FullName,
		user.Occupation,
		user.MobileNumber,
		user.DateOfBirth,
		user.Location,
		user.PasswordHash,
		user.ProfilePicture,
		user.Status,
		user.Version,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if mapped := mapPgError(err); utils.IsTyped(mapped) {
			return mapped
		}
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("create user %s: %w", user.ID.String(), err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return ur.findOne(ctx, "id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (ur *userRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return ur.findOne(ctx, "id", `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (ur *userRepository) FindByMobileNumber(ctx context.Context, mobileNumber string) (*entity.User, error) {
	return ur.findOne(ctx, "mobile_number", `SELECT `+userColumns+` FROM users WHERE mobile_number = $1`, mobileNumber)
}

func (ur *userRepository) findOne(ctx context.Context, key, query string, arg any) (*entity.User, error) {
	user, err := scanUser(ur.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user",
			zap.Error(err),
			zap.String("by", key),
			zap.Any("value", arg),
		)
		return nil, fmt.Errorf("find user by %s: %w", key, err)
	}

	return user, nil
}

func buildUserFilter(filter UserFilter, args []any) (string, []any) {
	var clauses []string
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		clauses = append(clauses, fmt.Sprintf("location = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// FindAll retrieves a page of users, newest first
func (ur *userRepository) FindAll(ctx context.Context, filter UserFilter, limit, offset int) ([]*entity.User, error) {
	where, args := buildUserFilter(filter, nil)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))

	rows, err := ur.db.Query(ctx, query, args...)
	if err != nil {
		ur.log.Error("Failed to list users",
			zap.Error(err),
			zap.String("status", string(filter.Status)),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find users limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) Count(ctx context.Context, filter UserFilter) (int64, error) {
	where, args := buildUserFilter(filter, nil)

	var count int64
	if err := ur.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET full_name = $3, occupation = $4, mobile_number = $5, location = $6,
		    profile_picture = $7, status = $8, updated_at = $9,
		    version = version + 1
		WHERE id = $1 AND version = $2
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Version,
		user.FullName,
		user.Occupation,
		user.MobileNumber,
		user.Location,
		user.ProfilePicture,
		user.Status,
		user.UpdatedAt,
	)
	if err != nil {
		if mapped := mapPgError(err); utils.IsTyped(mapped) {
			return mapped
		}
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return utils.NewConflictError("user %s was modified concurrently", user.ID.String())
	}

	user.Version++
	return nil
}
