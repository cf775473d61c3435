package usecase

import (
	"context"

	"member-directory/internal/data/entity"
	"member-directory/internal/data/repository"
	"member-directory/internal/dto/request"
	"member-directory/internal/dto/response"
	"member-directory/pkg/utils"

	"go.uber.org/zap"
)

// DirectoryService lists approved members to other members.
type DirectoryService interface {
	ListApproved(ctx context.Context, req request.DirectoryRequest) (*response.PaginatedResponse[response.DirectoryEntry], error)
}

type directoryService struct {
	userRepo repository.UserRepository
	media    MediaService
	log      *zap.Logger
}

func NewDirectoryService(userRepo repository.UserRepository, media MediaService, log *zap.Logger) DirectoryService {
	return &directoryService{
		userRepo: userRepo,
		media:    media,
		log:      log.With(zap.String("service", "directory")),
	}
}

func (s *directoryService) ListApproved(ctx context.Context, req request.DirectoryRequest) (*response.PaginatedResponse[response.DirectoryEntry], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	filter := repository.UserFilter{
		Status:   entity.StatusApproved,
		Location: req.Location,
	}

	users, err := s.userRepo.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, utils.AsStorageError("list approved users", err)
	}

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, utils.AsStorageError("count approved users", err)
	}

	entries := make([]response.DirectoryEntry, 0, len(users))
	for _, user := range users {
		entries = append(entries, response.DirectoryToResponse(user, s.media.URL))
	}

	return response.NewPaginatedResponse(entries, req.Page, req.Limit(), total), nil
}
