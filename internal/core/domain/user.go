package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type UserType string

const (
	UserTypeConsumer UserType = "consumer"
	UserTypeCreator  UserType = "creator"
)

func (t UserType) Valid() bool {
	return t == UserTypeConsumer || t == UserTypeCreator
}

// User is an account identity. The same email may exist once per user type,
// so lookups always pair email with the type.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	UserType     UserType  `json:"userType"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Avatar is the display avatar snapshotted onto posts and comments: the
// profile image when present, otherwise the uppercased first letter of the
// name.
func (u *User) Avatar() string {
	if u.ProfileImage != "" {
		return u.ProfileImage
	}
	if u.Name == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(u.Name)
	return strings.ToUpper(string(r))
}
