package response

import (
	"time"

	"member-directory/internal/data/entity"
)

// DirectoryEntry is what one approved member sees of another.
type DirectoryEntry struct {
	ID             string  `json:"id"`
	FullName       string  `json:"fullName"`
	Occupation     string  `json:"occupation"`
	Location       string  `json:"location"`
	DateOfBirth    string  `json:"dateOfBirth"`
	ProfilePicture *string `json:"profilePicture"`
}

type UploadResponse struct {
	Ref string `json:"ref"`
	URL string `json:"url"`
}

type OwnerSummary struct {
	FullName     string `json:"fullName"`
	MobileNumber string `json:"mobileNumber"`
	Location     string `json:"location"`
}

type UpdateRequestResponse struct {
	ID       string             `json:"id"`
	UserID   string             `json:"userId"`
	Field    entity.UpdateField `json:"field"`
	NewValue string             `json:"newValue"`
	// NewValueURL is set for image requests.
	NewValueURL string           `json:"newValueUrl,omitempty"`
	Type        entity.ValueType `json:"type"`
	Status      entity.Status    `json:"status"`
	User        *OwnerSummary    `json:"user,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// RequestDecisionResponse is returned by the approve and reject update
// routes.
type RequestDecisionResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Request UpdateRequestResponse `json:"request"`
}

func DirectoryToResponse(user *entity.User, url URLFunc) DirectoryEntry {
	return DirectoryEntry{
		ID:             user.ID.String(),
		FullName:       user.FullName,
		Occupation:     user.Occupation,
		Location:       user.Location,
		DateOfBirth:    user.DateOfBirth.Format(dateLayout),
		ProfilePicture: pictureURL(user.ProfilePicture, url),
	}
}

func UpdateRequestToResponse(req *entity.UpdateRequest, url URLFunc) UpdateRequestResponse {
	resp := UpdateRequestResponse{
		ID:        req.ID.String(),
		UserID:    req.UserID.String(),
		Field:     req.Field,
		NewValue:  req.NewValue,
		Type:      req.Type,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.UpdatedAt,
	}
	if req.Type == entity.ValueImage && url != nil {
		resp.NewValueURL = url(req.NewValue)
	}
	return resp
}

func UpdateRequestWithOwnerToResponse(req *entity.UpdateRequestWithOwner, url URLFunc) UpdateRequestResponse {
	resp := UpdateRequestToResponse(&req.UpdateRequest, url)
	resp.User = &OwnerSummary{
		FullName:     req.Owner.FullName,
		MobileNumber: req.Owner.MobileNumber,
		Location:     req.Owner.Location,
	}
	return resp
}
