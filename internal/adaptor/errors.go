package adaptor

import (
	"errors"
	"net/http"

	"member-directory/pkg/utils"

	"go.uber.org/zap"
)

// respondError maps the typed service errors to HTTP responses. Storage
// failures are logged with their cause and reported as a generic 500.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		vErr *utils.ValidationError
		cErr *utils.ConflictError
		nErr *utils.NotFoundError
	)

	switch {
	case errors.As(err, &vErr):
		log.Warn(operation+" validation failed", zap.Any("errors", vErr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", vErr.Fields)

	case errors.As(err, &cErr):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, cErr.Message)

	case errors.As(err, &nErr):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, nErr.Error())

	case errors.Is(err, utils.ErrInvalidCredentials):
		log.Warn(operation + " failed - invalid credentials")
		utils.ResponseUnauthorized(w, "Invalid credentials")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// respondBodyError reports a multipart body that could not be parsed.
func respondBodyError(w http.ResponseWriter, log *zap.Logger, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		log.Warn("Request body too large", zap.Int64("limit", tooLarge.Limit))
		utils.ResponseTooLarge(w, "Request body too large")
		return
	}
	utils.ResponseBadRequest(w, "Invalid multipart form", nil)
}
