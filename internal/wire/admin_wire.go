package wire

import (
	"member-directory/internal/adaptor"
	"member-directory/internal/data/repository"
	"member-directory/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireAdmin configures the approval console routes
func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	galleryHandler *adaptor.GalleryHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/admin/login", adminHandler.Login)

	// ==================== ADMIN ROUTES ====================
	r.With(middleware.AdminSession(repo.AdminSession, log)).Route("/api/admin", func(r chi.Router) {
		r.Post("/logout", adminHandler.Logout)
		r.Get("/pending-users", adminHandler.PendingUsers)
		r.Put("/approve-user/{id}", adminHandler.ApproveUser)
		r.Put("/reject-user/{id}", adminHandler.RejectUser)
		r.Get("/update-requests", adminHandler.UpdateRequests) // ?status=pending|approved|rejected|all
		r.Put("/approve-update/{id}", adminHandler.ApproveUpdate)
		r.Put("/reject-update/{id}", adminHandler.RejectUpdate)
		r.Post("/notify-new-user", adminHandler.NotifyNewUser)
		r.Get("/users/{id}/activity", adminHandler.UserActivity)
		r.Post("/images", galleryHandler.Upload) // multipart field "image"
	})
}
