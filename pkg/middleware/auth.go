package middleware

import (
	"net/http"

	"member-directory/internal/data/repository"
	"member-directory/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthSession validates a member bearer token and attaches the session to
// the request context.
func AuthSession(sessionRepo repository.SessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := utils.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				utils.ResponseUnauthorized(w, "Missing or invalid authorization token. Use: Bearer <token>")
				return
			}

			token, err := uuid.Parse(raw)
			if err != nil {
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetSession(r.Context(), &utils.Session{
				Token:     raw,
				Role:      utils.RoleMember,
				UserID:    session.UserID,
				ExpiresAt: session.ExpiresAt,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminSession validates an administrator bearer token issued by admin
// login.
func AdminSession(adminRepo repository.AdminSessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := utils.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				utils.ResponseUnauthorized(w, "Missing or invalid authorization token. Use: Bearer <token>")
				return
			}

			session, err := adminRepo.Find(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate admin session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil {
				logger.Warn("Admin check: invalid or expired session",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				utils.ResponseUnauthorized(w, "Admin session expired, please log in again")
				return
			}

			ctx := utils.SetSession(r.Context(), &utils.Session{
				Token:     token,
				Role:      utils.RoleAdmin,
				Username:  session.Username,
				ExpiresAt: session.ExpiresAt,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
