// internal/wire/wire.go
package wire

import (
	"net/http"

	"member-directory/internal/adaptor"
	"member-directory/internal/data/repository"
	"member-directory/internal/usecase"
	"member-directory/pkg/middleware"
	"member-directory/pkg/storage"
	"member-directory/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired application
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes
func Wiring(repo *repository.Repository, store storage.BlobStore, config *utils.Config, logger *zap.Logger) *App {
	credentials := usecase.NewConfigCredentialProvider(config.Admin)
	if !credentials.Configured() {
		logger.Warn("Admin credentials are not configured, admin login is disabled")
	}

	service := usecase.NewService(repo, store, credentials, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, repo, store, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	store storage.BlobStore,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	wireAuth(r, handler.Auth, repo, logger)
	wireUser(r, handler.User, handler.Gallery, repo, logger)
	wireAdmin(r, handler.Admin, handler.Gallery, repo, logger)

	// Locally stored uploads are served by the API itself
	if local, ok := store.(*storage.LocalStore); ok {
		fs := http.StripPrefix(storage.UploadsPath, http.FileServer(http.Dir(local.Dir())))
		r.Get(storage.UploadsPath+"*", fs.ServeHTTP)
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
