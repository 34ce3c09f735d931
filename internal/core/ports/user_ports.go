package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vibeshare/vibeshare/internal/core/domain"
)

type UserRepository interface {
	// Create persists a new user. Returns domain.ErrDuplicateAccount when the
	// (email, userType) pair is already taken.
	Create(ctx context.Context, user *domain.User) error
	// GetByEmailAndType returns (nil, nil) when no such account exists.
	GetByEmailAndType(ctx context.Context, email string, userType domain.UserType) (*domain.User, error)
	// GetByID returns (nil, nil) when no such account exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
