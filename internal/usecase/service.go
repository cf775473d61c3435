package usecase

import (
	"member-directory/internal/data/repository"
	"member-directory/pkg/storage"
	"member-directory/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Approval  ApprovalService
	Auth      AuthService
	AdminAuth AdminAuthService
	Directory DirectoryService
	Gallery   GalleryService
	Media     MediaService
}

func NewService(
	repo *repository.Repository,
	store storage.BlobStore,
	credentials CredentialProvider,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	activity := NewActivitySink(repo.Activity, log)
	media := NewMediaService(store, config, log)

	return &Service{
		Approval:  NewApprovalService(repo, media, activity, log),
		Auth:      NewAuthService(repo, media, activity, config, log),
		AdminAuth: NewAdminAuthService(repo, credentials, activity, config, log),
		Directory: NewDirectoryService(repo.User, media, log),
		Gallery:   NewGalleryService(repo.Image, media, log),
		Media:     media,
	}
}
