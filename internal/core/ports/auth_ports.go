package ports

import (
	"context"

	"github.com/vibeshare/vibeshare/internal/core/domain"
)

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	UserType        string
	ProfileImageURL string
	ProfileImage    *Upload
}

type LoginInput struct {
	Email    string
	Password string
	UserType string
}

type AuthService interface {
	// Signup creates the account and immediately opens a session.
	Signup(ctx context.Context, input SignupInput, device domain.DeviceContext) (*domain.User, string, error)
	// Login verifies credentials and opens a fresh session; existing sessions
	// stay valid.
	Login(ctx context.Context, input LoginInput, device domain.DeviceContext) (*domain.User, string, error)
}
