package usecase

import (
	"bytes"
	"context"
	"errors"
	"time"

	"member-directory/internal/dto/request"
	"member-directory/pkg/storage"
	"member-directory/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MediaService interface {
	// UploadImage checks that the upload is an image within the size limit
	// and stores it. key names the input field in validation errors.
	UploadImage(ctx context.Context, key string, upload *request.FileUpload) (string, error)
	// Discard deletes an upload that ended up unreferenced. Failures are
	// logged and otherwise ignored.
	Discard(ctx context.Context, ref string)
	// Owns reports whether ref could have come from UploadImage.
	Owns(ref string) bool
	URL(ref string) string
}

const discardTimeout = 10 * time.Second

type mediaService struct {
	store    storage.BlobStore
	maxBytes int64
	log      *zap.Logger
}

func NewMediaService(store storage.BlobStore, config *utils.Config, log *zap.Logger) MediaService {
	return &mediaService{
		store:    store,
		maxBytes: config.Storage.MaxUploadBytes(),
		log:      log.With(zap.String("service", "media")),
	}
}

func (s *mediaService) UploadImage(ctx context.Context, key string, upload *request.FileUpload) (string, error) {
	if upload == nil || upload.Content == nil {
		return "", utils.NewValidationError(map[string]string{key: "This field is required"})
	}

	img, err := storage.ReadImage(upload.Content, s.maxBytes)
	switch {
	case errors.Is(err, storage.ErrNotImage):
		return "", utils.NewValidationError(map[string]string{key: "Must be an image file"})
	case errors.Is(err, storage.ErrTooLarge):
		return "", utils.NewValidationError(map[string]string{key: "File is too large"})
	case errors.Is(err, storage.ErrEmpty):
		return "", utils.NewValidationError(map[string]string{key: "File is empty"})
	case err != nil:
		s.log.Error("Failed to read upload", zap.Error(err))
		return "", utils.AsStorageError("read upload", err)
	}

	name := uuid.NewString() + img.Extension
	ref, err := s.store.Upload(ctx, name, bytes.NewReader(img.Data))
	if err != nil {
		s.log.Error("Failed to store upload",
			zap.Error(err),
			zap.String("filename", upload.Filename),
			zap.String("mime", img.MIME),
		)
		return "", utils.AsStorageError("store upload", err)
	}

	s.log.Info("Image uploaded", zap.String("ref", ref), zap.Int("bytes", len(img.Data)))
	return ref, nil
}

func (s *mediaService) Discard(ctx context.Context, ref string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discardTimeout)
	defer cancel()

	if err := s.store.Delete(ctx, ref); err != nil {
		s.log.Warn("Failed to discard upload", zap.Error(err), zap.String("ref", ref))
		return
	}
	s.log.Info("Upload discarded", zap.String("ref", ref))
}

func (s *mediaService) Owns(ref string) bool {
	return s.store.Owns(ref)
}

func (s *mediaService) URL(ref string) string {
	return s.store.URL(ref)
}
