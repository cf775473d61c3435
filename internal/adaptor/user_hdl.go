package adaptor

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"member-directory/internal/dto/request"
	"member-directory/internal/dto/response"
	"member-directory/internal/usecase"
	"member-directory/pkg/utils"

	"go.uber.org/zap"
)

// multipartOverhead leaves room for the text parts of a multipart body on
// top of the image size limit.
const multipartOverhead = 1 << 20

type UserHandler struct {
	approval  usecase.ApprovalService
	auth      usecase.AuthService
	directory usecase.DirectoryService
	media     usecase.MediaService
	maxUpload int64
	log       *zap.Logger
}

func NewUserHandler(service *usecase.Service, maxUpload int64, log *zap.Logger) *UserHandler {
	return &UserHandler{
		approval:  service.Approval,
		auth:      service.Auth,
		directory: service.Directory,
		media:     service.Media,
		maxUpload: maxUpload,
		log:       log,
	}
}

// Register handles POST /api/users/register. It accepts either a JSON body
// or a multipart form with an optional profilePicture file.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			h.handleBodyError(w, err)
			return
		}
		defer r.MultipartForm.RemoveAll()

		req = request.RegisterRequest{
			FullName:     r.FormValue("fullName"),
			Occupation:   r.FormValue("occupation"),
			MobileNumber: r.FormValue("mobileNumber"),
			DateOfBirth:  r.FormValue("dateOfBirth"),
			Location:     r.FormValue("location"),
			Password:     r.FormValue("password"),
		}

		file, header, err := r.FormFile("profilePicture")
		switch {
		case err == nil:
			defer file.Close()
			req.ProfilePicture = &request.FileUpload{Filename: header.Filename, Content: file}
		case !errors.Is(err, http.ErrMissingFile):
			utils.ResponseBadRequest(w, "Invalid profile picture", nil)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.approval.RegisterUser(r.Context(), &req)
	if err != nil {
		// A taken mobile number is reported as a bad request on this route.
		var cErr *utils.ConflictError
		if errors.As(err, &cErr) {
			h.log.Warn("register failed - already registered", zap.Error(err))
			utils.ResponseBadRequest(w, cErr.Message, nil)
			return
		}
		h.handleServiceError(w, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration submitted. Waiting for admin approval.", resp)
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.auth.Profile(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// Approved handles GET /api/users/approved?location=&page=&per_page=
func (h *UserHandler) Approved(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.DirectoryRequest{
		PaginatedRequest: request.NewPaginatedRequest(
			utils.ParseInt(query.Get("page"), 1),
			utils.ParseInt(query.Get("per_page"), 20),
		),
		Location: query.Get("location"),
	}

	members, err := h.directory.ListApproved(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "list approved members")
		return
	}

	utils.ResponseSuccess(w, "Members retrieved successfully", members)
}

// Upload handles POST /api/users/uploads. The returned ref is the value to
// send as newValue in a profilePicture update request.
func (h *UserHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.handleBodyError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"file": "This field is required"})
		return
	}
	defer file.Close()

	ref, err := h.media.UploadImage(r.Context(), "file", &request.FileUpload{
		Filename: header.Filename,
		Content:  file,
	})
	if err != nil {
		h.handleServiceError(w, err, "upload image")
		return
	}

	utils.ResponseCreated(w, "File uploaded successfully", response.UploadResponse{
		Ref: ref,
		URL: h.media.URL(ref),
	})
}

// RequestUpdate handles POST /api/users/request-update
func (h *UserHandler) RequestUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.approval.SubmitUpdateRequest(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "submit update request")
		return
	}

	utils.ResponseCreated(w, "Update request submitted", resp)
}

func (h *UserHandler) handleBodyError(w http.ResponseWriter, err error) {
	respondBodyError(w, h.log, err)
}

func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	respondError(w, h.log, err, operation)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
