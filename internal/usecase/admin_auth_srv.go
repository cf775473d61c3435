package usecase

import (
	"context"
	"time"

	"member-directory/internal/data/entity"
	"member-directory/internal/data/repository"
	"member-directory/internal/dto/request"
	"member-directory/internal/dto/response"
	"member-directory/pkg/utils"

	"go.uber.org/zap"
)

type AdminAuthService interface {
	Login(ctx context.Context, req *request.AdminLoginRequest) (*response.AdminLoginResponse, error)
	Logout(ctx context.Context, token string) error
}

type adminAuthService struct {
	repo        *repository.Repository
	credentials CredentialProvider
	activity    ActivitySink
	ttl         time.Duration
	log         *zap.Logger
}

func NewAdminAuthService(
	repo *repository.Repository,
	credentials CredentialProvider,
	activity ActivitySink,
	config *utils.Config,
	log *zap.Logger,
) AdminAuthService {
	hours := config.Auth.AdminSessionExpiryHours
	if hours <= 0 {
		hours = 24
	}
	return &adminAuthService{
		repo:        repo,
		credentials: credentials,
		activity:    activity,
		ttl:         time.Duration(hours) * time.Hour,
		log:         log.With(zap.String("service", "admin_auth")),
	}
}

func (s *adminAuthService) Login(ctx context.Context, req *request.AdminLoginRequest) (*response.AdminLoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	if !s.credentials.Verify(req.Username, req.Password) {
		s.log.Warn("Admin login failed")
		recordActivity(ctx, s.activity, s.log, entity.ActivityEvent{
			EventType: entity.ActivityLoginFailure,
			Actor:     "anonymous",
			Metadata:  map[string]any{"reason": "invalid_admin_credentials"},
		})
		return nil, utils.ErrInvalidCredentials
	}

	session, err := s.repo.AdminSession.Create(ctx, req.Username, s.ttl)
	if err != nil {
		s.log.Error("Failed to create admin session", zap.Error(err))
		return nil, utils.AsStorageError("create admin session", err)
	}

	recordActivity(ctx, s.activity, s.log, entity.ActivityEvent{
		EventType: entity.ActivityAdminLogin,
		Actor:     "admin:" + session.Username,
	})

	s.log.Info("Admin logged in", zap.String("username", session.Username))

	return &response.AdminLoginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *adminAuthService) Logout(ctx context.Context, token string) error {
	if err := s.repo.AdminSession.Delete(ctx, token); err != nil {
		return utils.AsStorageError("delete admin session", err)
	}
	s.log.Info("Admin logged out")
	return nil
}
