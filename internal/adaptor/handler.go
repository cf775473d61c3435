package adaptor

import (
	"member-directory/internal/usecase"
	"member-directory/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Admin   *AdminHandler
	Gallery *GalleryHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service, config.Storage.MaxUploadBytes(), log),
		Admin:   NewAdminHandler(service.Approval, service.AdminAuth, log),
		Gallery: NewGalleryHandler(service.Gallery, config.Storage.MaxUploadBytes(), log),
	}
}
