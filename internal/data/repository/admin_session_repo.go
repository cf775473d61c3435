package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"member-directory/internal/data/entity"
	"member-directory/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	adminSessionKeyPrefix   = "admin_session:"
	adminToSessionKeyPrefix = "admin_to_session:"
)

// AdminSessionRepository keeps administrator sessions in Redis. Expiry is
// enforced by the key TTL.
type AdminSessionRepository interface {
	// Create replaces any session the admin already holds.
	Create(ctx context.Context, username string, ttl time.Duration) (*entity.AdminSession, error)
	// Find returns nil when the token is unknown or expired.
	Find(ctx context.Context, token string) (*entity.AdminSession, error)
	Delete(ctx context.Context, token string) error
}

type adminSessionRepository struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewAdminSessionRepository(rdb *redis.Client, log *zap.Logger) AdminSessionRepository {
	return &adminSessionRepository{
		rdb: rdb,
		log: log.With(zap.String("repository", "admin_session")),
	}
}

func (r *adminSessionRepository) Create(ctx context.Context, username string, ttl time.Duration) (*entity.AdminSession, error) {
	if err := r.invalidateFor(ctx, username); err != nil {
		r.log.Warn("Failed to invalidate previous admin session", zap.Error(err))
	}

	token, err := utils.GenerateOpaqueToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate admin token: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, adminSessionKeyPrefix+token, username, ttl)
		pipe.Set(ctx, adminToSessionKeyPrefix+username, token, ttl)
		return nil
	})
	if err != nil {
		r.log.Error("Failed to store admin session",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("store admin session: %w", err)
	}

	return &entity.AdminSession{
		Token:     token,
		Username:  username,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (r *adminSessionRepository) Find(ctx context.Context, token string) (*entity.AdminSession, error) {
	if token == "" {
		return nil, nil
	}

	key := adminSessionKeyPrefix + token
	username, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to read admin session", zap.Error(err))
		return nil, fmt.Errorf("read admin session: %w", err)
	}

	ttl, err := r.rdb.TTL(ctx, key).Result()
	if err != nil {
		r.log.Error("Failed to read admin session ttl", zap.Error(err))
		return nil, fmt.Errorf("read admin session ttl: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}

	return &entity.AdminSession{
		Token:     token,
		Username:  username,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (r *adminSessionRepository) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	key := adminSessionKeyPrefix + token
	username, err := r.rdb.Get(ctx, key).Result()
	if err == nil && username != "" {
		_ = r.rdb.Del(ctx, adminToSessionKeyPrefix+username).Err()
	}

	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		r.log.Error("Failed to delete admin session", zap.Error(err))
		return fmt.Errorf("delete admin session: %w", err)
	}
	return nil
}

func (r *adminSessionRepository) invalidateFor(ctx context.Context, username string) error {
	mapKey := adminToSessionKeyPrefix + username
	token, err := r.rdb.Get(ctx, mapKey).Result()
	if err == nil && token != "" {
		_ = r.rdb.Del(ctx, adminSessionKeyPrefix+token).Err()
	}
	return r.rdb.Del(ctx, mapKey).Err()
}
