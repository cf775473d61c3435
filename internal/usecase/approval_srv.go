package usecase

import (
	"context"
	"errors"
	"time"

	"member-directory/internal/data/entity"
	"member-directory/internal/data/repository"
	"member-directory/internal/dto/request"
	"member-directory/internal/dto/response"
	"member-directory/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApprovalService owns every status change of users and update requests.
type ApprovalService interface {
	RegisterUser(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error)
	ApproveUser(ctx context.Context, id string) (*response.MemberResponse, error)
	RejectUser(ctx context.Context, id string) (*response.MemberResponse, error)
	SubmitUpdateRequest(ctx context.Context, userID uuid.UUID, req *request.UpdateFieldRequest) (*response.UpdateRequestResponse, error)
	ResolveUpdateRequest(ctx context.Context, id string, decision entity.Decision) (*response.UpdateRequestResponse, error)
	ListPendingUsers(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.MemberResponse], error)
	ListUpdateRequests(ctx context.Context, filter request.UpdateRequestFilter) (*response.PaginatedResponse[response.UpdateRequestResponse], error)
	// NotifyNewUser only logs; there is no delivery channel.
	NotifyNewUser(ctx context.Context, id string) error
	// UserActivity returns the newest audit events for a user. It is empty
	// when no activity store is configured.
	UserActivity(ctx context.Context, id string, limit int) ([]entity.ActivityEvent, error)
}

type approvalService struct {
	repo     *repository.Repository
	media    MediaService
	activity ActivitySink
	log      *zap.Logger
}

func NewApprovalService(
	repo *repository.Repository,
	media MediaService,
	activity ActivitySink,
	log *zap.Logger,
) ApprovalService {
	return &approvalService{
		repo:     repo,
		media:    media,
		activity: activity,
		log:      log.With(zap.String("service", "approval")),
	}
}

func (s *approvalService) RegisterUser(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error) {
	// 1. Validate every field before touching any store
	req.Normalize()
	errs := utils.ValidateStruct(req)
	dob, dobErr := time.Parse("2006-01-02", req.DateOfBirth)
	if _, invalid := errs["dateOfBirth"]; !invalid && dobErr == nil && dob.After(time.Now()) {
		if errs == nil {
			errs = make(map[string]string)
		}
		errs["dateOfBirth"] = "Must not be in the future"
	}
	if len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError(errs)
	}

	// 2. Friendlier early message; the unique index still decides races
	existing, err := s.repo.User.FindByMobileNumber(ctx, req.MobileNumber)
	if err != nil {
		return nil, utils.AsStorageError("check mobile number", err)
	}
	if existing != nil {
		s.log.Warn("Duplicate registration", zap.String("mobile_number", req.MobileNumber))
		return nil, utils.NewConflictError("mobile number already registered")
	}

	// 3. Hash password
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, utils.AsStorageError("hash password", err)
	}

	// 4. Store the optional picture
	var picture *string
	if req.ProfilePicture != nil {
		ref, err := s.media.UploadImage(ctx, "profilePicture", req.ProfilePicture)
		if err != nil {
			return nil, err
		}
		picture = &ref
	}

	// 5. Insert as pending
	now := time.Now()
	user := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName:       req.FullName,
		Occupation:     req.Occupation,
		MobileNumber:   req.MobileNumber,
		DateOfBirth:    dob,
		Location:       req.Location,
		PasswordHash:   hash,
		ProfilePicture: picture,
		Status:         entity.StatusPending,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if picture != nil {
			s.media.Discard(ctx, *picture)
		}
		return nil, utils.AsStorageError("create user", err)
	}

	recordActivity(ctx, s.activity, s.log, entity.ActivityEvent{
		EventType: entity.ActivityUserRegistered,
		Actor:     user.ID.String(),
		UserID:    user.ID.String(),
		ToStatus:  entity.StatusPending,
		Metadata:  map[string]any{"location": user.Location},
	})

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("location", user.Location),
	)

	resp := response.RegisterToResponse(user)
	return &resp, nil
}

func (s *approvalService) ApproveUser(ctx context.Context, id string) (*response.MemberResponse, error) {
	return s.decideUser(ctx, id, entity.DecisionApprove)
}

func (s *approvalService) RejectUser(ctx context.Context, id string) (*response.MemberResponse, error) {
	return s.decideUser(ctx, id, entity.DecisionReject)
}

// decideUser moves a pending user to the decision's target. Repeating the
// decision already taken is a no-op; reversing it is a conflict.
func (s *approvalService) decideUser(ctx context.Context, id string, decision entity.Decision) (*response.MemberResponse, error) {
	userID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}

	target := decision.Target()
	var (
		user *entity.User
		from entity.Status
	)

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.TxRepos) error {
		found, err := tx.User.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if found == nil {
			return utils.NewNotFoundError("user", id)
		}

		user, from = found, found.Status
		if from == target {
			return nil
		}
		if !from.CanTransition(target) {
			return utils.NewConflictError("user is already %s", from)
		}

		user.Status = target
		user.UpdatedAt = time.Now()
		return tx.User.Update(ctx, user)
	})
	if err != nil {
		if !utils.IsTyped(err) {
			s.log.Error("Failed to change user status",
				zap.Error(err),
				zap.String("user_id", id),
				zap.String("decision", string(decision)),
			)
		}
		return nil, utils.AsStorageError("change user status", err)
	}

	if from != target {
		recordActivity(ctx, s.activity, s.log, entity.ActivityEvent{
			EventType:  entity.ActivityUserStatusChanged,
			Actor:      actorFromContext(ctx),
			UserID:     user.ID.String(),
			FromStatus: from,
			ToStatus:   target,
		})
		// Members are not notified; this line is the whole notification.
		s.log.Info("Notify member of status change",
			zap.String("user_id", user.ID.String()),
			zap.String("status", string(target)),
		)
	}

	resp := response.MemberToResponse(user, s.media.URL)
	return &resp, nil
}

func (s *approvalService) SubmitUpdateRequest(ctx context.Context, userID uuid.UUID, req *request.UpdateFieldRequest) (*response.UpdateRequestResponse, error) {
	// 1. Validate shape
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update request validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError(errs)
	}
	if req.UserID != "" && req.UserID != userID.String() {
		return nil, utils.NewValidationError(map[string]string{"userId": "Must match the signed-in member"})
	}

	// 2. Owner must exist
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.AsStorageError("find user", err)
	}
	if user == nil {
		return nil, utils.NewNotFoundError("user", userID.String())
	}

	// 3. Build the typed change
	change, err := entity.NewFieldChange(entity.UpdateField(req.Field), req.NewValue, entity.ValueType(req.Type))
	if err != nil {
		var fieldErr *entity.FieldError
		if errors.As(err, &fieldErr) {
			return nil, utils.NewValidationError(map[string]string{fieldErr.Key: fieldErr.Message})
		}
		return nil, err
	}
	if err := s.checkOwnedImage(change); err != nil {
		return nil, err
	}

	// 4. Only approved members may ask for changes
	if !user.IsApproved() {
		return nil, utils.NewConflictError("only approved members can request profile updates")
	}

	now := time.Now()
	updateReq := &entity.UpdateRequest{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:   user.ID,
		Field:    change.Field(),
		NewValue: change.Value(),
		Type:     change.Type(),
		Status:   entity.StatusPending,
	}

	if err := s.repo.UpdateRequest.Create(ctx, updateReq); err != nil {
		return nil, utils.AsStorageError("create update request", err)
	}

	recordActivity(ctx, s.activity, s.log, entity.ActivityEvent{
		EventType: entity.ActivityUpdateRequestCreated,
		Actor:     user.ID.String(),
		UserID:    user.ID.String(),
		RequestID: updateReq.ID.String(),
		ToStatus:  entity.StatusPending,
		Metadata:  map[string]any{"field": string(updateReq.Field)},
	})

	s.log.Info("Update request submitted",
		zap.String("request_id", updateReq.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("field", string(updateReq.Field)),
	)

	resp := response.UpdateRequestToResponse(updateReq, s.media.URL)
	return &resp, nil
}

// ResolveUpdateRequest applies or discards a pending request. The request
// and its owner are locked for the whole transaction, so two resolutions
// touching the same user run one after the other.
func (s *approvalService) ResolveUpdateRequest(ctx context.Context, id string, decision entity.Decision) (*response.UpdateRequestResponse, error) {
	requestID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	if !decision.Valid() {
		return nil, utils.NewValidationError(map[string]string{"decision": "Must be one of: approve, reject"})
	}

	var updateReq *entity.UpdateRequest
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.TxRepos) error {
		found, err := tx.UpdateRequest.FindByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if found == nil {
			return utils.NewNotFoundError("update request", id)
		}
		if found.Status.IsTerminal() {
			return utils.NewConflictError("update request is already %s", found.Status)
		}

		now := time.Now()
		if decision == entity.DecisionApprove {
			change, err := found.Change()
			if err != nil {
				var fieldErr *entity.FieldError
				if errors.As(err, &fieldErr) {
					return utils.NewValidationError(map[string]string{fieldErr.Key: fieldErr.Message})
				}
				return err
			}
			if err := s.checkOwnedImage(change); err != nil {
				return err
			}

			user, err := tx.User.FindByIDForUpdate(ctx, found.UserID)
			if err != nil {
				return err
			}
			if user == nil {
				return utils.NewNotFoundError("user", found.UserID.String())
			}

			change.Apply(user)
			user.UpdatedAt = now
			if err := tx.User.Update(ctx, user); err != nil {
				return err
			}
		}

		found.Status = decision.Target()
		found.UpdatedAt = now
		if err := tx.UpdateRequest.UpdateStatus(ctx, found); err != nil {
			return err
		}
		updateReq = found
		return nil
	})
	if err != nil {
		if !utils.IsTyped(err) {
			s.log.Error("Failed to resolve update request",
				zap.Error(err),
				zap.String("request_id", id),
				zap.String("decision", string(decision)),
			)
		}
		return nil, utils.AsStorageError("resolve update request", err)
	}

	recordActivity(ctx, s.activity, s.log, entity.ActivityEvent{
		EventType:  entity.ActivityUpdateRequestResolved,
		Actor:      actorFromContext(ctx),
		UserID:     updateReq.UserID.String(),
		RequestID:  updateReq.ID.String(),
		FromStatus: entity.StatusPending,
		ToStatus:   updateReq.Status,
		Metadata:   map[string]any{"field": string(updateReq.Field)},
	})

	s.log.Info("Update request resolved",
		zap.String("request_id", updateReq.ID.String()),
		zap.String("status", string(updateReq.Status)),
	)

	resp := response.UpdateRequestToResponse(updateReq, s.media.URL)
	return &resp, nil
}

func (s *approvalService) ListPendingUsers(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.MemberResponse], error) {
	filter := repository.UserFilter{Status: entity.StatusPending}

	users, err := s.repo.User.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, utils.AsStorageError("list pending users", err)
	}

	total, err := s.repo.User.Count(ctx, filter)
	if err != nil {
		return nil, utils.AsStorageError("count pending users", err)
	}

	data := make([]response.MemberResponse, 0, len(users))
	for _, user := range users {
		data = append(data, response.MemberToResponse(user, s.media.URL))
	}

	return response.NewPaginatedResponse(data, page.Page, page.Limit(), total), nil
}

func (s *approvalService) ListUpdateRequests(ctx context.Context, filter request.UpdateRequestFilter) (*response.PaginatedResponse[response.UpdateRequestResponse], error) {
	if errs := utils.ValidateStruct(filter); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	var status entity.Status
	switch filter.Status {
	case "":
		status = entity.StatusPending
	case "all":
	default:
		status = entity.Status(filter.Status)
	}

	requests, err := s.repo.UpdateRequest.FindAll(ctx, status, filter.Limit(), filter.Offset())
	if err != nil {
		return nil, utils.AsStorageError("list update requests", err)
	}

	total, err := s.repo.UpdateRequest.Count(ctx, status)
	if err != nil {
		return nil, utils.AsStorageError("count update requests", err)
	}

	data := make([]response.UpdateRequestResponse, 0, len(requests))
	for _, req := range requests {
		data = append(data, response.UpdateRequestWithOwnerToResponse(req, s.media.URL))
	}

	return response.NewPaginatedResponse(data, filter.Page, filter.Limit(), total), nil
}

func (s *approvalService) NotifyNewUser(ctx context.Context, id string) error {
	userID, err := parseID("userId", id)
	if err != nil {
		return err
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return utils.AsStorageError("find user", err)
	}
	if user == nil {
		return utils.NewNotFoundError("user", id)
	}

	recordActivity(ctx, s.activity, s.log, entity.ActivityEvent{
		EventType: entity.ActivityNewUserNotification,
		Actor:     actorFromContext(ctx),
		UserID:    user.ID.String(),
	})

	s.log.Info("New user notification",
		zap.String("user_id", user.ID.String()),
		zap.String("full_name", user.FullName),
		zap.String("status", string(user.Status)),
	)
	return nil
}

func (s *approvalService) UserActivity(ctx context.Context, id string, limit int) ([]entity.ActivityEvent, error) {
	userID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	events := []entity.ActivityEvent{}
	if s.repo.Activity == nil {
		return events, nil
	}

	found, err := s.repo.Activity.FindByUser(ctx, userID.String(), int64(limit))
	if err != nil {
		return nil, utils.AsStorageError("find activity", err)
	}
	for _, event := range found {
		events = append(events, *event)
	}
	return events, nil
}

// checkOwnedImage rejects picture references the blob store did not issue.
func (s *approvalService) checkOwnedImage(change entity.FieldChange) error {
	if change.Type() != entity.ValueImage || s.media.Owns(change.Value()) {
		return nil
	}
	return utils.NewValidationError(map[string]string{"newValue": "Must be a reference returned by the upload route"})
}

func parseID(key, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, utils.NewValidationError(map[string]string{key: "Must be a valid UUID"})
	}
	return parsed, nil
}

// actorFromContext names the caller for audit events.
func actorFromContext(ctx context.Context) string {
	session, ok := utils.GetSession(ctx)
	if !ok {
		return "system"
	}
	if session.Role == utils.RoleAdmin {
		return "admin:" + session.Username
	}
	return session.UserID.String()
}
