package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"member-directory/pkg/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryHost = "res.cloudinary.com"

// CloudinaryStore uploads to Cloudinary. References are secure URLs.
type CloudinaryStore struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	folder    string
}

func NewCloudinaryStore(cfg utils.CloudinaryConfig) (*CloudinaryStore, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryStore{cld: cld, cloudName: cfg.CloudName, folder: cfg.Folder}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	// Cloudinary appends the format itself.
	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     strings.TrimSuffix(name, path.Ext(name)),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, ref string) error {
	publicID, ok := s.publicID(ref)
	if !ok {
		return fmt.Errorf("not a Cloudinary upload: %q", ref)
	}

	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("cloudinary rejected delete: %s", result.Error.Message)
	}
	return nil
}

// Owns accepts secure delivery URLs of this cloud's image uploads.
func (s *CloudinaryStore) Owns(ref string) bool {
	_, ok := s.publicID(ref)
	return ok
}

// publicID extracts the asset id from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/v123/<folder>/<id>.png
func (s *CloudinaryStore) publicID(ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "https" || u.Host != cloudinaryHost {
		return "", false
	}

	rest, ok := strings.CutPrefix(u.Path, "/"+s.cloudName+"/image/upload/")
	if !ok || rest == "" {
		return "", false
	}

	if version, after, found := strings.Cut(rest, "/"); found && isVersion(version) {
		rest = after
	}
	id := strings.TrimSuffix(rest, path.Ext(rest))
	if id == "" || strings.Contains(id, "..") {
		return "", false
	}
	return id, true
}

func isVersion(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for _, c := range segment[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// URL returns ref unchanged; Cloudinary references are already absolute.
func (s *CloudinaryStore) URL(ref string) string {
	return ref
}
