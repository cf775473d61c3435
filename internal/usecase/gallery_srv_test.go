package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"member-directory/internal/data/entity"
	"member-directory/internal/data/repository"
	"member-directory/internal/dto/request"
	"member-directory/internal/usecase"
	"member-directory/pkg/storage"
	"member-directory/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingImages struct {
	repository.ImageRepository
}

func (failingImages) Create(ctx context.Context, image *entity.Image) error {
	return errors.New("connection reset")
}

func galleryUpload() *request.FileUpload {
	return &request.FileUpload{Filename: "event.png", Content: bytes.NewReader(pngBytes)}
}

func TestGalleryUploadStoresImage(t *testing.T) {
	env := newTestEnv(t)

	image, err := env.svc.Gallery.UploadImage(adminCtx(), galleryUpload())
	require.NoError(t, err)
	assert.Equal(t, "admin:admin", image.UploadedBy)
	require.True(t, strings.HasPrefix(image.URL, "http://localhost:8080/uploads/"), image.URL)

	data, err := os.ReadFile(filepath.Join(env.dir, strings.TrimPrefix(image.URL, "http://localhost:8080/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestGalleryUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Gallery.UploadImage(adminCtx(), &request.FileUpload{
		Filename: "notes.png",
		Content:  bytes.NewReader([]byte("plain text")),
	})
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "image")

	_, err = env.svc.Gallery.UploadImage(adminCtx(), nil)
	require.ErrorAs(t, err, &vErr)

	count, err := env.store.Repository().Image.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGalleryListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	images := env.store.Repository().Image

	base := time.Now().Add(-time.Hour)
	for i, ref := range []string{"old.png", "middle.png", "new.png"} {
		require.NoError(t, images.Create(ctx, &entity.Image{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: base.Add(time.Duration(i) * time.Minute)},
			Ref:        ref,
			UploadedBy: "admin:admin",
		}))
	}

	first, err := env.svc.Gallery.ListImages(ctx, request.NewPaginatedRequest(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), first.Pagination.Total)
	assert.Equal(t, 2, first.Pagination.TotalPages)
	require.Len(t, first.Data, 2)
	assert.Equal(t, "http://localhost:8080/uploads/new.png", first.Data[0].URL)
	assert.Equal(t, "http://localhost:8080/uploads/middle.png", first.Data[1].URL)

	second, err := env.svc.Gallery.ListImages(ctx, request.NewPaginatedRequest(2, 2))
	require.NoError(t, err)
	require.Len(t, second.Data, 1)
	assert.Equal(t, "http://localhost:8080/uploads/old.png", second.Data[0].URL)
}

func TestGalleryListEmpty(t *testing.T) {
	env := newTestEnv(t)

	page, err := env.svc.Gallery.ListImages(context.Background(), request.NewPaginatedRequest(1, 20))
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Zero(t, page.Pagination.Total)
}

func TestGalleryUploadDiscardsBlobWhenInsertFails(t *testing.T) {
	dir := t.TempDir()
	blobs, err := storage.NewLocalStore(dir, "http://localhost:8080")
	require.NoError(t, err)

	config := &utils.Config{Storage: utils.StorageConfig{MaxUploadMB: 1}}
	media := usecase.NewMediaService(blobs, config, zap.NewNop())
	gallery := usecase.NewGalleryService(failingImages{}, media, zap.NewNop())

	_, err = gallery.UploadImage(adminCtx(), galleryUpload())
	var sErr *utils.StorageError
	require.ErrorAs(t, err, &sErr)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
