package response

import (
	"time"

	"member-directory/internal/data/entity"
)

type ImageResponse struct {
	ID         string    `json:"id"`
	URL        string    `json:"imageUrl"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func ImageToResponse(image *entity.Image, url URLFunc) ImageResponse {
	return ImageResponse{
		ID:         image.ID.String(),
		URL:        url(image.Ref),
		UploadedBy: image.UploadedBy,
		UploadedAt: image.CreatedAt,
	}
}
