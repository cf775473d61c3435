package adaptor

import (
	"net/http"

	"member-directory/internal/dto/request"
	"member-directory/internal/usecase"
	"member-directory/pkg/utils"

	"go.uber.org/zap"
)

type GalleryHandler struct {
	gallery   usecase.GalleryService
	maxUpload int64
	log       *zap.Logger
}

func NewGalleryHandler(gallery usecase.GalleryService, maxUpload int64, log *zap.Logger) *GalleryHandler {
	return &GalleryHandler{
		gallery:   gallery,
		maxUpload: maxUpload,
		log:       log,
	}
}

// Upload handles POST /api/admin/images with a multipart "image" file.
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		respondBodyError(w, h.log, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"image": "This field is required"})
		return
	}
	defer file.Close()

	image, err := h.gallery.UploadImage(r.Context(), &request.FileUpload{
		Filename: header.Filename,
		Content:  file,
	})
	if err != nil {
		h.handleServiceError(w, err, "upload gallery image")
		return
	}

	utils.ResponseCreated(w, "Image uploaded successfully", image)
}

// List handles GET /api/users/images?page=&per_page=
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := request.NewPaginatedRequest(
		utils.ParseInt(query.Get("page"), 1),
		utils.ParseInt(query.Get("per_page"), 20),
	)

	images, err := h.gallery.ListImages(r.Context(), page)
	if err != nil {
		h.handleServiceError(w, err, "list gallery images")
		return
	}

	utils.ResponseSuccess(w, "Images retrieved successfully", images)
}

func (h *GalleryHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	respondError(w, h.log, err, operation)
}
