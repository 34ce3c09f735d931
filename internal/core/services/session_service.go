package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vibeshare/vibeshare/internal/core/domain"
	"github.com/vibeshare/vibeshare/internal/core/ports"
)

type sessionService struct {
	users  ports.UserRepository
	tokens ports.TokenRepository
	secret []byte
	ttl    time.Duration
}

// NewSessionService builds the session manager. ttl is the lifetime of issued
// tokens; the embedded JWT expiry and the persisted deadline always mirror
// each other.
func NewSessionService(users ports.UserRepository, tokens ports.TokenRepository, secret []byte, ttl time.Duration) ports.SessionService {
	return &sessionService{
		users:  users,
		tokens: tokens,
		secret: secret,
		ttl:    ttl,
	}
}

func (s *sessionService) Issue(ctx context.Context, user *domain.User, device domain.DeviceContext) (string, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	id := uuid.New()

	// The jti claim keeps tokens issued within the same second distinct.
	claims := jwt.RegisteredClaims{
		ID:        id.String(),
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	record := &domain.Token{
		ID:        id,
		UserID:    user.ID,
		Token:     raw,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UserAgent: device.UserAgent,
		IPAddress: device.IPAddress,
		IsActive:  true,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return raw, nil
}

// Verify resolves a raw bearer token into the owning user and its session
// record. Expiry is enforced lazily here: an expired token deactivates its own
// record as a side effect, whether the deadline was caught by the signature
// check or by the persisted record.
func (s *sessionService) Verify(ctx context.Context, raw string) (*domain.User, *domain.Token, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			// Signature checked out, only the embedded deadline has passed.
			s.expireRecord(ctx, raw, claims.Subject)
			return nil, nil, domain.ErrTokenExpired
		}
		return nil, nil, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, nil, domain.ErrInvalidToken
	}

	record, err := s.tokens.GetActive(ctx, raw, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if record == nil {
		return nil, nil, domain.ErrTokenRevoked
	}

	if record.ExpiresAt.Before(time.Now()) {
		if err := s.tokens.Deactivate(ctx, raw); err != nil {
			return nil, nil, fmt.Errorf("failed to deactivate expired token: %w", err)
		}
		return nil, nil, domain.ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		if err := s.tokens.Deactivate(ctx, raw); err != nil {
			return nil, nil, fmt.Errorf("failed to deactivate orphaned token: %w", err)
		}
		return nil, nil, domain.ErrUserNotFound
	}

	return user, record, nil
}

func (s *sessionService) Revoke(ctx context.Context, raw string) error {
	return s.tokens.Deactivate(ctx, raw)
}

func (s *sessionService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.DeactivateAllForUser(ctx, userID)
}

func (s *sessionService) Sessions(ctx context.Context, userID uuid.UUID, currentRaw string) ([]domain.SessionInfo, error) {
	records, err := s.tokens.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	sessions := make([]domain.SessionInfo, 0, len(records))
	for _, rec := range records {
		sessions = append(sessions, domain.SessionInfo{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt,
			ExpiresAt: rec.ExpiresAt,
			UserAgent: rec.UserAgent,
			IPAddress: rec.IPAddress,
			IsCurrent: rec.Token == currentRaw,
		})
	}
	return sessions, nil
}

func (s *sessionService) keyFunc(*jwt.Token) (interface{}, error) {
	return s.secret, nil
}

// expireRecord marks the persisted record for an expired-but-authentic token
// inactive. Best effort: the rejection stands either way, and the background
// reaper converges on the same state.
func (s *sessionService) expireRecord(ctx context.Context, raw, subject string) {
	userID, err := uuid.Parse(subject)
	if err != nil {
		return
	}
	if record, err := s.tokens.GetActive(ctx, raw, userID); err == nil && record != nil {
		_ = s.tokens.Deactivate(ctx, raw)
	}
}
