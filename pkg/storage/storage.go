package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"member-directory/pkg/utils"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("file exceeds the upload limit")
	ErrEmpty    = errors.New("file is empty")
)

// BlobStore keeps uploaded images outside the database. Upload returns a
// reference that is stored as-is; URL turns a reference into an address a
// client can fetch.
type BlobStore interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	// Delete removes a stored blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, ref string) error
	// Owns reports whether ref has the shape of a reference Upload returns.
	Owns(ref string) bool
	URL(ref string) string
}

// Image is an upload that passed content sniffing.
type Image struct {
	Data      []byte
	MIME      string
	Extension string
}

// ReadImage reads at most max bytes from r and checks that the content is
// an image. The declared content type of the upload is ignored.
func ReadImage(r io.Reader, max int64) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > max {
		return nil, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, ErrNotImage
	}

	return &Image{Data: data, MIME: mt.String(), Extension: mt.Extension()}, nil
}

// New builds the store selected by cfg.Driver.
func New(cfg utils.StorageConfig, publicBaseURL string) (BlobStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.UploadDir, publicBaseURL)
	case "cloudinary":
		return NewCloudinaryStore(cfg.Cloudinary)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
