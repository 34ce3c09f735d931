package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vibeshare/vibeshare/internal/core/domain"
)

type TokenRepository interface {
	Create(ctx context.Context, token *domain.Token) error
	// GetActive returns the active record matching the exact raw token string
	// and owning user, or (nil, nil) when absent.
	GetActive(ctx context.Context, raw string, userID uuid.UUID) (*domain.Token, error)
	// Deactivate flips is_active off for the exact token string. Zero matched
	// rows is not an error.
	Deactivate(ctx context.Context, raw string) error
	// DeactivateAllForUser flips is_active off for every active token of the
	// user.
	DeactivateAllForUser(ctx context.Context, userID uuid.UUID) error
	// ListActiveByUser returns the user's active records, newest first.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Token, error)
	// DeactivateExpired bulk-flips every active record whose deadline has
	// passed and reports how many were affected.
	DeactivateExpired(ctx context.Context) (int64, error)
}

type SessionService interface {
	Issue(ctx context.Context, user *domain.User, device domain.DeviceContext) (string, error)
	Verify(ctx context.Context, raw string) (*domain.User, *domain.Token, error)
	Revoke(ctx context.Context, raw string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
	Sessions(ctx context.Context, userID uuid.UUID, currentRaw string) ([]domain.SessionInfo, error)
}
