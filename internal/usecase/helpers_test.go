package usecase_test

import (
	"context"
	"testing"

	"member-directory/internal/data/repository/repotest"
	"member-directory/internal/dto/request"
	"member-directory/internal/usecase"
	"member-directory/pkg/storage"
	"member-directory/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminPassword = "admin-secret"

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type testEnv struct {
	svc   *usecase.Service
	store *repotest.Store
	dir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	blobs, err := storage.NewLocalStore(dir, "http://localhost:8080")
	require.NoError(t, err)

	hash, err := utils.HashPassword(adminPassword)
	require.NoError(t, err)

	config := &utils.Config{
		Auth:    utils.AuthConfig{SessionExpiryHours: 24, AdminSessionExpiryHours: 24},
		Admin:   utils.AdminConfig{Username: "admin", PasswordHash: hash},
		Storage: utils.StorageConfig{MaxUploadMB: 1},
	}

	store := repotest.NewStore()
	svc := usecase.NewService(
		store.Repository(),
		blobs,
		usecase.NewConfigCredentialProvider(config.Admin),
		config,
		zap.NewNop(),
	)
	return &testEnv{svc: svc, store: store, dir: dir}
}

func adminCtx() context.Context {
	return utils.SetSession(context.Background(), &utils.Session{
		Token:    "admin-token",
		Role:     utils.RoleAdmin,
		Username: "admin",
	})
}

func registration(mobile string) *request.RegisterRequest {
	return &request.RegisterRequest{
		FullName:     "Asha Verma",
		Occupation:   "Teacher",
		MobileNumber: mobile,
		DateOfBirth:  "1990-04-12",
		Location:     "JCI KANPUR",
		Password:     "secret123",
	}
}

// register creates a user and returns its id.
func (e *testEnv) register(t *testing.T, mobile string) uuid.UUID {
	t.Helper()
	resp, err := e.svc.Approval.RegisterUser(context.Background(), registration(mobile))
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

// approved creates and approves a user.
func (e *testEnv) approved(t *testing.T, mobile string) uuid.UUID {
	t.Helper()
	id := e.register(t, mobile)
	_, err := e.svc.Approval.ApproveUser(adminCtx(), id.String())
	require.NoError(t, err)
	return id
}

func login(mobile, password string) *request.LoginRequest {
	return &request.LoginRequest{MobileNumber: mobile, Password: password}
}
