package wire_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"member-directory/internal/data/repository/repotest"
	"member-directory/internal/wire"
	"member-directory/pkg/storage"
	"member-directory/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminPassword = "admin-secret"

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newRouter(t *testing.T) *chi.Mux {
	t.Helper()

	blobs, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	hash, err := utils.HashPassword(adminPassword)
	require.NoError(t, err)

	config := &utils.Config{
		App:     utils.AppConfig{AllowedOrigins: []string{"*"}},
		Auth:    utils.AuthConfig{SessionExpiryHours: 24, AdminSessionExpiryHours: 24},
		Admin:   utils.AdminConfig{Username: "admin", PasswordHash: hash},
		Storage: utils.StorageConfig{MaxUploadMB: 1},
	}

	return wire.Wiring(repotest.NewStore().Repository(), blobs, config, zap.NewNop()).Router
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func registration(mobile string) map[string]string {
	return map[string]string{
		"fullName":     "Asha Verma",
		"occupation":   "Teacher",
		"mobileNumber": mobile,
		"dateOfBirth":  "1990-04-12",
		"location":     "JCI KANPUR",
		"password":     "secret123",
	}
}

func adminToken(t *testing.T, router http.Handler) string {
	t.Helper()
	rec, body := do(t, router, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "admin",
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	return body["token"].(string)
}

func TestMembershipScenario(t *testing.T) {
	router := newRouter(t)

	rec, body := do(t, router, http.MethodPost, "/api/users/register", "", registration("9876543210"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := body["data"].(map[string]any)
	assert.Equal(t, "pending", data["status"])
	userID := data["id"].(string)

	rec, body = do(t, router, http.MethodPost, "/api/users/register", "", registration("9876543210"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, body = do(t, router, http.MethodPost, "/api/users/login", "", map[string]string{
		"mobileNumber": "9876543210",
		"password":     "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "pending", body["status"])

	admin := adminToken(t, router)

	rec, body = do(t, router, http.MethodPut, "/api/admin/approve-user/"+userID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "approved", body["user"].(map[string]any)["status"])

	rec, body = do(t, router, http.MethodPost, "/api/users/login", "", map[string]string{
		"mobileNumber": "9876543210",
		"password":     "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "approved", body["status"])
	member := body["token"].(string)

	rec, body = do(t, router, http.MethodPost, "/api/users/request-update", member, map[string]string{
		"field":    "occupation",
		"newValue": "Engineer",
		"type":     "text",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	requestID := body["data"].(map[string]any)["id"].(string)

	rec, body = do(t, router, http.MethodGet, "/api/admin/update-requests", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := body["data"].(map[string]any)["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "Asha Verma", list[0].(map[string]any)["user"].(map[string]any)["fullName"])

	rec, body = do(t, router, http.MethodPut, "/api/admin/approve-update/"+requestID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "approved", body["request"].(map[string]any)["status"])

	rec, _ = do(t, router, http.MethodPut, "/api/admin/approve-update/"+requestID, admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, body = do(t, router, http.MethodGet, "/api/users/me", member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Engineer", body["data"].(map[string]any)["occupation"])

	rec, _ = do(t, router, http.MethodPost, "/api/users/logout", member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, router, http.MethodGet, "/api/users/me", member, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidationListsFields(t *testing.T) {
	router := newRouter(t)

	rec, body := do(t, router, http.MethodPost, "/api/users/register", "", map[string]string{
		"mobileNumber": "12345",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := body["errors"].(map[string]any)
	for _, key := range []string{"fullName", "occupation", "mobileNumber", "dateOfBirth", "location", "password"} {
		assert.Contains(t, errs, key)
	}
}

func TestLoginUnknownAndWrongPassword(t *testing.T) {
	router := newRouter(t)
	do(t, router, http.MethodPost, "/api/users/register", "", registration("9876543210"))

	rec, _ := do(t, router, http.MethodPost, "/api/users/login", "", map[string]string{
		"mobileNumber": "9000000000",
		"password":     "secret123",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodPost, "/api/users/login", "", map[string]string{
		"mobileNumber": "9876543210",
		"password":     "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireAdminSession(t *testing.T) {
	router := newRouter(t)

	rec, _ := do(t, router, http.MethodGet, "/api/admin/pending-users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, router, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := adminToken(t, router)
	rec, body := do(t, router, http.MethodGet, "/api/admin/pending-users", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["data"].(map[string]any)["data"])

	rec, _ = do(t, router, http.MethodPost, "/api/admin/logout", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, router, http.MethodGet, "/api/admin/pending-users", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserDecisionErrors(t *testing.T) {
	router := newRouter(t)
	admin := adminToken(t, router)

	_, body := do(t, router, http.MethodPost, "/api/users/register", "", registration("9876543210"))
	userID := body["data"].(map[string]any)["id"].(string)

	rec, _ := do(t, router, http.MethodPut, "/api/admin/approve-user/"+userID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, router, http.MethodPut, "/api/admin/reject-user/"+userID, admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = do(t, router, http.MethodPut, "/api/admin/approve-user/6f1c2b9e-8a4d-4c1e-9b7a-2d3e4f5a6b7c", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodPut, "/api/admin/approve-user/not-a-uuid", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMultipartRegistrationServesPicture(t *testing.T) {
	router := newRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range registration("9876543210") {
		require.NoError(t, mw.WriteField(key, value))
	}
	part, err := mw.CreateFormFile("profilePicture", "me.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	admin := adminToken(t, router)
	_, body := do(t, router, http.MethodGet, "/api/admin/pending-users", admin, nil)
	users := body["data"].(map[string]any)["data"].([]any)
	require.Len(t, users, 1)

	picture := users[0].(map[string]any)["profilePicture"].(string)
	require.True(t, strings.HasPrefix(picture, "http://localhost:8080/uploads/"), picture)

	rec, _ = do(t, router, http.MethodGet, strings.TrimPrefix(picture, "http://localhost:8080"), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func uploadFile(t *testing.T, router http.Handler, path, token, field string, content []byte) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "upload.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func memberToken(t *testing.T, router http.Handler, admin, mobile string) string {
	t.Helper()

	_, body := do(t, router, http.MethodPost, "/api/users/register", "", registration(mobile))
	userID := body["data"].(map[string]any)["id"].(string)
	rec, _ := do(t, router, http.MethodPut, "/api/admin/approve-user/"+userID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = do(t, router, http.MethodPost, "/api/users/login", "", map[string]string{
		"mobileNumber": mobile,
		"password":     "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return body["token"].(string)
}

func TestGalleryUploadAndList(t *testing.T) {
	router := newRouter(t)
	admin := adminToken(t, router)
	member := memberToken(t, router, admin, "9876543210")

	rec, _ := uploadFile(t, router, "/api/admin/images", "", "image", pngBytes)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, _ = uploadFile(t, router, "/api/admin/images", member, "image", pngBytes)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "member sessions are not admin sessions")

	rec, body := uploadFile(t, router, "/api/admin/images", admin, "image", []byte("not an image"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["errors"], "image")

	rec, body = uploadFile(t, router, "/api/admin/images", admin, "image", pngBytes)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := body["data"].(map[string]any)["imageUrl"].(string)
	require.True(t, strings.HasPrefix(first, "http://localhost:8080/uploads/"), first)

	rec, body = uploadFile(t, router, "/api/admin/images", admin, "image", pngBytes)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := body["data"].(map[string]any)["imageUrl"].(string)

	rec, _ = do(t, router, http.MethodGet, "/api/users/images", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = do(t, router, http.MethodGet, "/api/users/images?page=1&per_page=1", member, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["pagination"].(map[string]any)["total"])
	list := data["data"].([]any)
	require.Len(t, list, 1)
	assert.Contains(t, []string{first, second}, list[0].(map[string]any)["imageUrl"])

	rec, _ = do(t, router, http.MethodGet, strings.TrimPrefix(first, "http://localhost:8080"), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func TestPictureUpdateRejectsForeignURL(t *testing.T) {
	router := newRouter(t)
	admin := adminToken(t, router)
	member := memberToken(t, router, admin, "9876543210")

	rec, body := do(t, router, http.MethodPost, "/api/users/request-update", member, map[string]string{
		"field":    "profilePicture",
		"newValue": "http://evil.example/x.png",
		"type":     "image",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["errors"], "newValue")

	rec, body = uploadFile(t, router, "/api/users/uploads", member, "file", pngBytes)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ref := body["data"].(map[string]any)["ref"].(string)

	rec, _ = do(t, router, http.MethodPost, "/api/users/request-update", member, map[string]string{
		"field":    "profilePicture",
		"newValue": ref,
		"type":     "image",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	router := newRouter(t)

	rec, _ := do(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
