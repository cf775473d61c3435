package entity_test

import (
	"strings"
	"testing"

	"member-directory/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFieldChangeAppliesTypedSetter(t *testing.T) {
	tests := []struct {
		name  string
		field entity.UpdateField
		value string
		typ   entity.ValueType
		check func(t *testing.T, u *entity.User)
	}{
		{
			name:  "full name",
			field: entity.FieldFullName,
			value: "  Asha Verma ",
			typ:   entity.ValueText,
			check: func(t *testing.T, u *entity.User) { assert.Equal(t, "Asha Verma", u.FullName) },
		},
		{
			name:  "occupation",
			field: entity.FieldOccupation,
			value: "Engineer",
			typ:   entity.ValueText,
			check: func(t *testing.T, u *entity.User) { assert.Equal(t, "Engineer", u.Occupation) },
		},
		{
			name:  "mobile number",
			field: entity.FieldMobileNumber,
			value: "9123456780",
			typ:   entity.ValueText,
			check: func(t *testing.T, u *entity.User) { assert.Equal(t, "9123456780", u.MobileNumber) },
		},
		{
			name:  "location",
			field: entity.FieldLocation,
			value: "JCI KANPUR",
			typ:   entity.ValueText,
			check: func(t *testing.T, u *entity.User) { assert.Equal(t, "JCI KANPUR", u.Location) },
		},
		{
			name:  "profile picture",
			field: entity.FieldProfilePicture,
			value: "uploads/avatar.png",
			typ:   entity.ValueImage,
			check: func(t *testing.T, u *entity.User) {
				require.NotNil(t, u.ProfilePicture)
				assert.Equal(t, "uploads/avatar.png", *u.ProfilePicture)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, err := entity.NewFieldChange(tt.field, tt.value, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.field, change.Field())

			u := &entity.User{FullName: "Old", Occupation: "Old", MobileNumber: "9000000000", Location: "JCI RATH"}
			change.Apply(u)
			tt.check(t, u)
		})
	}
}

func TestNewFieldChangeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		field   entity.UpdateField
		value   string
		typ     entity.ValueType
		wantKey string
	}{
		{"field outside allowlist", "status", "approved", entity.ValueText, "field"},
		{"password is not mutable", "password", "secret", entity.ValueText, "field"},
		{"unknown type", entity.FieldOccupation, "Engineer", "video", "type"},
		{"image type on text field", entity.FieldOccupation, "Engineer", entity.ValueImage, "type"},
		{"text type on picture", entity.FieldProfilePicture, "uploads/a.png", entity.ValueText, "type"},
		{"empty value", entity.FieldFullName, "   ", entity.ValueText, "newValue"},
		{"short mobile", entity.FieldMobileNumber, "123", entity.ValueText, "newValue"},
		{"unknown chapter", entity.FieldLocation, "JCI ATLANTIS", entity.ValueText, "newValue"},
		{"full name too long", entity.FieldFullName, strings.Repeat("a", 300), entity.ValueText, "newValue"},
		{"occupation too long", entity.FieldOccupation, strings.Repeat("é", entity.MaxTextLength+1), entity.ValueText, "newValue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entity.NewFieldChange(tt.field, tt.value, tt.typ)
			var fieldErr *entity.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.wantKey, fieldErr.Key)
		})
	}
}

func TestNewFieldChangeCountsCharactersNotBytes(t *testing.T) {
	value := strings.Repeat("é", entity.MaxTextLength)

	change, err := entity.NewFieldChange(entity.FieldFullName, value, entity.ValueText)
	require.NoError(t, err)
	assert.Equal(t, value, change.Value())
}

func TestIsChapterAndMobileNumber(t *testing.T) {
	assert.True(t, entity.IsChapter("JCI MATHURA ELITE (2024)"))
	assert.False(t, entity.IsChapter("jci mathura"))
	assert.True(t, entity.IsMobileNumber("9876543210"))
	assert.False(t, entity.IsMobileNumber("98765432101"))
	assert.False(t, entity.IsMobileNumber("98765x3210"))
}
