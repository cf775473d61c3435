package entity

import (
	"regexp"
	"time"
)

type User struct {
	BaseNoDelete
	FullName       string    `db:"full_name"`
	Occupation     string    `db:"occupation"`
	MobileNumber   string    `db:"mobile_number"`
	DateOfBirth    time.Time `db:"date_of_birth"`
	Location       string    `db:"location"`
	PasswordHash   string    `db:"password"`
	ProfilePicture *string   `db:"profile_picture"`
	Status         Status    `db:"status"`
	Version        int       `db:"version"`
}

func (u *User) IsApproved() bool {
	return u.Status == StatusApproved
}

var mobileNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)

// IsMobileNumber reports whether s is exactly ten ASCII digits.
func IsMobileNumber(s string) bool {
	return mobileNumberPattern.MatchString(s)
}
