package request

import (
	"io"
	"strings"

	"member-directory/internal/data/entity"
	"member-directory/pkg/utils"
)

func init() {
	utils.RegisterValidation("mobile", entity.IsMobileNumber)
	utils.RegisterValidation("chapter", entity.IsChapter)
}

// FileUpload is an uploaded file before it reaches the blob store.
type FileUpload struct {
	Filename string
	Content  io.Reader
}

type RegisterRequest struct {
	FullName     string `json:"fullName" validate:"required,max=255"`
	Occupation   string `json:"occupation" validate:"required,max=255"`
	MobileNumber string `json:"mobileNumber" validate:"required,mobile"`
	DateOfBirth  string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Location     string `json:"location" validate:"required,chapter"`
	Password     string `json:"password" validate:"required,min=6,max=72"`

	// ProfilePicture is only set for multipart registrations.
	ProfilePicture *FileUpload `json:"-"`
}

// Normalize trims surrounding whitespace from every text field except the
// password.
func (r *RegisterRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Occupation = strings.TrimSpace(r.Occupation)
	r.MobileNumber = strings.TrimSpace(r.MobileNumber)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.Location = strings.TrimSpace(r.Location)
}

type LoginRequest struct {
	MobileNumber string `json:"mobileNumber" validate:"required"`
	Password     string `json:"password" validate:"required"`

	// Filled from the HTTP request and stored on the session.
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
