package request

// UpdateFieldRequest asks for one profile field to change. UserID is
// accepted for older clients but must match the session when present.
type UpdateFieldRequest struct {
	UserID   string `json:"userId,omitempty" validate:"omitempty,uuid"`
	Field    string `json:"field" validate:"required"`
	NewValue string `json:"newValue" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=text image"`
}

type UpdateRequestFilter struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=pending approved rejected all"`
}

type DirectoryRequest struct {
	PaginatedRequest
	Location string `json:"location" validate:"omitempty,chapter"`
}

type NotifyNewUserRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}
