package entity

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// UpdateField names a user attribute a member may ask to change.
type UpdateField string

const (
	FieldFullName       UpdateField = "fullName"
	FieldOccupation     UpdateField = "occupation"
	FieldMobileNumber   UpdateField = "mobileNumber"
	FieldLocation       UpdateField = "location"
	FieldProfilePicture UpdateField = "profilePicture"
)

// MaxTextLength is the longest free-text value, in characters, that the
// users table accepts for fullName and occupation.
const MaxTextLength = 255

type ValueType string

const (
	ValueText  ValueType = "text"
	ValueImage ValueType = "image"
)

type UpdateRequest struct {
	BaseNoDelete
	UserID   uuid.UUID   `db:"user_id"`
	Field    UpdateField `db:"field"`
	NewValue string      `db:"new_value"`
	Type     ValueType   `db:"type"`
	Status   Status      `db:"status"`
}

// Change rebuilds the typed change carried by a stored request.
func (r *UpdateRequest) Change() (FieldChange, error) {
	return NewFieldChange(r.Field, r.NewValue, r.Type)
}

// UserSummary is the owner data listed next to an update request.
type UserSummary struct {
	FullName     string `db:"full_name"`
	MobileNumber string `db:"mobile_number"`
	Location     string `db:"location"`
}

type UpdateRequestWithOwner struct {
	UpdateRequest
	Owner UserSummary
}

// FieldError is returned when a field change cannot be built.
type FieldError struct {
	Key     string
	Message string
}

func (e *FieldError) Error() string {
	return e.Key + ": " + e.Message
}

// FieldChange is a validated change to one mutable user attribute. The set
// of implementations is closed; build values with NewFieldChange.
type FieldChange interface {
	Field() UpdateField
	Value() string
	Type() ValueType
	Apply(u *User)
	sealed()
}

type fullNameChange struct{ value string }
type occupationChange struct{ value string }
type mobileNumberChange struct{ value string }
type locationChange struct{ value string }
type profilePictureChange struct{ ref string }

func (c fullNameChange) Field() UpdateField { return FieldFullName }
func (c fullNameChange) Value() string      { return c.value }
func (c fullNameChange) Type() ValueType    { return ValueText }
func (c fullNameChange) Apply(u *User)      { u.FullName = c.value }
func (fullNameChange) sealed()              {}

func (c occupationChange) Field() UpdateField { return FieldOccupation }
func (c occupationChange) Value() string      { return c.value }
func (c occupationChange) Type() ValueType    { return ValueText }
func (c occupationChange) Apply(u *User)      { u.Occupation = c.value }
func (occupationChange) sealed()              {}

func (c mobileNumberChange) Field() UpdateField { return FieldMobileNumber }
func (c mobileNumberChange) Value() string      { return c.value }
func (c mobileNumberChange) Type() ValueType    { return ValueText }
func (c mobileNumberChange) Apply(u *User)      { u.MobileNumber = c.value }
func (mobileNumberChange) sealed()              {}

func (c locationChange) Field() UpdateField { return FieldLocation }
func (c locationChange) Value() string      { return c.value }
func (c locationChange) Type() ValueType    { return ValueText }
func (c locationChange) Apply(u *User)      { u.Location = c.value }
func (locationChange) sealed()              {}

func (c profilePictureChange) Field() UpdateField { return FieldProfilePicture }
func (c profilePictureChange) Value() string      { return c.ref }
func (c profilePictureChange) Type() ValueType    { return ValueImage }
func (c profilePictureChange) Apply(u *User) {
	ref := c.ref
	u.ProfilePicture = &ref
}
func (profilePictureChange) sealed() {}

// NewFieldChange validates value against the rules of field and returns
// the matching change. Fields outside the allowlist are rejected here, so
// a stored request can always be applied.
func NewFieldChange(field UpdateField, value string, typ ValueType) (FieldChange, error) {
	if typ != ValueText && typ != ValueImage {
		return nil, &FieldError{Key: "type", Message: "Must be one of: text, image"}
	}

	value = strings.TrimSpace(value)

	wantType := ValueText
	if field == FieldProfilePicture {
		wantType = ValueImage
	}
	switch field {
	case FieldFullName, FieldOccupation, FieldMobileNumber, FieldLocation, FieldProfilePicture:
		if typ != wantType {
			return nil, &FieldError{Key: "type", Message: "Must be " + string(wantType) + " for " + string(field)}
		}
	default:
		return nil, &FieldError{Key: "field", Message: "Must be one of: fullName, occupation, mobileNumber, location, profilePicture"}
	}

	if value == "" {
		return nil, &FieldError{Key: "newValue", Message: "This field is required"}
	}

	switch field {
	case FieldFullName:
		if utf8.RuneCountInString(value) > MaxTextLength {
			return nil, &FieldError{Key: "newValue", Message: "Maximum length is " + strconv.Itoa(MaxTextLength)}
		}
		return fullNameChange{value: value}, nil
	case FieldOccupation:
		if utf8.RuneCountInString(value) > MaxTextLength {
			return nil, &FieldError{Key: "newValue", Message: "Maximum length is " + strconv.Itoa(MaxTextLength)}
		}
		return occupationChange{value: value}, nil
	case FieldMobileNumber:
		if !IsMobileNumber(value) {
			return nil, &FieldError{Key: "newValue", Message: "Must be exactly 10 digits"}
		}
		return mobileNumberChange{value: value}, nil
	case FieldLocation:
		if !IsChapter(value) {
			return nil, &FieldError{Key: "newValue", Message: "Must be a valid chapter location"}
		}
		return locationChange{value: value}, nil
	default:
		return profilePictureChange{ref: value}, nil
	}
}
