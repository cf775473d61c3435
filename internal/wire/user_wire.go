package wire

import (
	"member-directory/internal/adaptor"
	"member-directory/internal/data/repository"
	"member-directory/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures member routes
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	galleryHandler *adaptor.GalleryHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/users/register", userHandler.Register)

	// ==================== MEMBER ROUTES ====================
	// Requires a session from /api/users/login
	r.With(middleware.AuthSession(repo.Session, log)).Route("/api/users", func(r chi.Router) {
		r.Get("/me", userHandler.Me)
		r.Get("/approved", userHandler.Approved) // GET /api/users/approved?location=&page=1
		r.Post("/uploads", userHandler.Upload)
		r.Post("/request-update", userHandler.RequestUpdate)
		r.Get("/images", galleryHandler.List) // newest first
	})
}
