package usecase

import (
	"context"
	"time"

	"member-directory/internal/data/entity"
	"member-directory/internal/data/repository"
	"member-directory/internal/dto/request"
	"member-directory/internal/dto/response"
	"member-directory/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService signs members in and out. A correct password on a pending or
// rejected account is not an error; the response carries the status so the
// client can explain it.
type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, userID uuid.UUID) (*response.MemberResponse, error)
	// RunSessionCleanup deletes long-expired sessions every interval until
	// ctx is done.
	RunSessionCleanup(ctx context.Context, interval time.Duration)
}

type authService struct {
	repo     *repository.Repository
	media    MediaService
	activity ActivitySink
	config   *utils.Config
	log      *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	media MediaService,
	activity ActivitySink,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		media:    media,
		activity: activity,
		config:   config,
		log:      log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError(errs)
	}

	// 2. Find user by mobile number
	user, err := s.repo.User.FindByMobileNumber(ctx, req.MobileNumber)
	if err != nil {
		return nil, utils.AsStorageError("find user", err)
	}
	if user == nil {
		s.log.Warn("User not found for login")
		s.loginFailed(ctx, "", "unknown_user")
		return nil, utils.NewNotFoundError("user", "")
	}

	// 3. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		s.loginFailed(ctx, user.ID.String(), "invalid_password")
		return nil, utils.ErrInvalidCredentials
	}

	// 4. Branch on approval status
	switch user.Status {
	case entity.StatusPending:
		s.loginFailed(ctx, user.ID.String(), "pending")
		return &response.LoginResponse{
			Success: false,
			Status:  entity.StatusPending,
			Message: "Your registration is pending approval",
		}, nil
	case entity.StatusRejected:
		s.loginFailed(ctx, user.ID.String(), "rejected")
		return &response.LoginResponse{
			Success: false,
			Status:  entity.StatusRejected,
			Message: "Your registration has been rejected",
		}, nil
	}

	// 5. Create session
	session, err := s.createSession(ctx, user.ID, req)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, utils.AsStorageError("create session", err)
	}

	recordActivity(ctx, s.activity, s.log, entity.ActivityEvent{
		EventType: entity.ActivityLoginSuccess,
		Actor:     user.ID.String(),
		UserID:    user.ID.String(),
	})

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	member := response.MemberToResponse(user, s.media.URL)
	expiresAt := session.ExpiresAt
	return &response.LoginResponse{
		Success:   true,
		Status:    entity.StatusApproved,
		Message:   "Login successful",
		User:      &member,
		Token:     session.Token.String(),
		ExpiresAt: &expiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return utils.NewValidationError(map[string]string{"token": "Must be a valid UUID"})
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID); err != nil {
		return utils.AsStorageError("revoke session", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*response.MemberResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.AsStorageError("find user", err)
	}
	if user == nil {
		return nil, utils.NewNotFoundError("user", userID.String())
	}

	resp := response.MemberToResponse(user, s.media.URL)
	return &resp, nil
}

func (s *authService) RunSessionCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.repo.Session.CleanExpiredSessions(ctx); err != nil && ctx.Err() == nil {
			s.log.Warn("Failed to clean expired sessions", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, req *request.LoginRequest) (*entity.Session, error) {
	hours := s.config.Auth.SessionExpiryHours
	if hours <= 0 {
		hours = 24
	}

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(time.Duration(hours) * time.Hour),
	}
	if req.UserAgent != "" {
		session.UserAgent = &req.UserAgent
	}
	if req.IPAddress != "" {
		session.IPAddress = &req.IPAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *authService) loginFailed(ctx context.Context, userID, reason string) {
	recordActivity(ctx, s.activity, s.log, entity.ActivityEvent{
		EventType: entity.ActivityLoginFailure,
		Actor:     "anonymous",
		UserID:    userID,
		Metadata:  map[string]any{"reason": reason},
	})
}
