package usecase

import (
	"context"
	"time"

	"member-directory/internal/data/entity"
	"member-directory/internal/data/repository"
	"member-directory/internal/dto/request"
	"member-directory/internal/dto/response"
	"member-directory/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GalleryService manages the image gallery shown on the members' home
// screen. Admins upload; approved members browse.
type GalleryService interface {
	UploadImage(ctx context.Context, upload *request.FileUpload) (*response.ImageResponse, error)
	ListImages(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.ImageResponse], error)
}

type galleryService struct {
	imageRepo repository.ImageRepository
	media     MediaService
	log       *zap.Logger
}

func NewGalleryService(imageRepo repository.ImageRepository, media MediaService, log *zap.Logger) GalleryService {
	return &galleryService{
		imageRepo: imageRepo,
		media:     media,
		log:       log.With(zap.String("service", "gallery")),
	}
}

func (s *galleryService) UploadImage(ctx context.Context, upload *request.FileUpload) (*response.ImageResponse, error) {
	ref, err := s.media.UploadImage(ctx, "image", upload)
	if err != nil {
		return nil, err
	}

	image := &entity.Image{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Ref:        ref,
		UploadedBy: actorFromContext(ctx),
	}

	if err := s.imageRepo.Create(ctx, image); err != nil {
		s.media.Discard(ctx, ref)
		return nil, utils.AsStorageError("create image", err)
	}

	s.log.Info("Gallery image uploaded",
		zap.String("image_id", image.ID.String()),
		zap.String("uploaded_by", image.UploadedBy),
	)

	resp := response.ImageToResponse(image, s.media.URL)
	return &resp, nil
}

func (s *galleryService) ListImages(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.ImageResponse], error) {
	images, err := s.imageRepo.FindAll(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, utils.AsStorageError("list images", err)
	}

	total, err := s.imageRepo.Count(ctx)
	if err != nil {
		return nil, utils.AsStorageError("count images", err)
	}

	data := make([]response.ImageResponse, 0, len(images))
	for _, image := range images {
		data = append(data, response.ImageToResponse(image, s.media.URL))
	}

	return response.NewPaginatedResponse(data, page.Page, page.Limit(), total), nil
}
