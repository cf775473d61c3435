package response

import (
	"time"

	"member-directory/internal/data/entity"
)

const dateLayout = "2006-01-02"

// RegisterResponse is the public projection returned after registration.
type RegisterResponse struct {
	ID           string        `json:"id"`
	FullName     string        `json:"fullName"`
	MobileNumber string        `json:"mobileNumber"`
	Status       entity.Status `json:"status"`
}

// MemberResponse is a user without credentials. ProfilePicture is a fully
// qualified URL.
type MemberResponse struct {
	ID             string        `json:"id"`
	FullName       string        `json:"fullName"`
	Occupation     string        `json:"occupation"`
	MobileNumber   string        `json:"mobileNumber"`
	DateOfBirth    string        `json:"dateOfBirth"`
	Location       string        `json:"location"`
	ProfilePicture *string       `json:"profilePicture"`
	Status         entity.Status `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// LoginResponse carries the tri-state login outcome. User and Token are
// only set for approved members.
type LoginResponse struct {
	Success   bool            `json:"success"`
	Status    entity.Status   `json:"status"`
	Message   string          `json:"message"`
	User      *MemberResponse `json:"user,omitempty"`
	Token     string          `json:"token,omitempty"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

type AdminLoginResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserDecisionResponse is returned by the approve and reject user routes.
type UserDecisionResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    MemberResponse `json:"user"`
}

// URLFunc turns a stored blob reference into a client URL.
type URLFunc func(ref string) string

func RegisterToResponse(user *entity.User) RegisterResponse {
	return RegisterResponse{
		ID:           user.ID.String(),
		FullName:     user.FullName,
		MobileNumber: user.MobileNumber,
		Status:       user.Status,
	}
}

func MemberToResponse(user *entity.User, url URLFunc) MemberResponse {
	return MemberResponse{
		ID:             user.ID.String(),
		FullName:       user.FullName,
		Occupation:     user.Occupation,
		MobileNumber:   user.MobileNumber,
		DateOfBirth:    user.DateOfBirth.Format(dateLayout),
		Location:       user.Location,
		ProfilePicture: pictureURL(user.ProfilePicture, url),
		Status:         user.Status,
		CreatedAt:      user.CreatedAt,
	}
}

func pictureURL(ref *string, url URLFunc) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	resolved := *ref
	if url != nil {
		resolved = url(resolved)
	}
	return &resolved
}
