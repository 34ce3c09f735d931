package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vibeshare/vibeshare/internal/core/domain"
	"github.com/vibeshare/vibeshare/internal/core/ports"
)

type tokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) ports.TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *domain.Token) error {
	query := `
		INSERT INTO tokens (id, user_id, token, expires_at, created_at, user_agent, ip_address, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.Token, token.ExpiresAt, token.CreatedAt,
		token.UserAgent, token.IPAddress, token.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

func (r *tokenRepository) GetActive(ctx context.Context, raw string, userID uuid.UUID) (*domain.Token, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at, user_agent, ip_address, is_active
		FROM tokens
		WHERE token = $1 AND user_id = $2 AND is_active = true
	`
	token := &domain.Token{}
	err := r.db.QueryRowContext(ctx, query, raw, userID).Scan(
		&token.ID, &token.UserID, &token.Token, &token.ExpiresAt, &token.CreatedAt,
		&token.UserAgent, &token.IPAddress, &token.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return token, nil
}

func (r *tokenRepository) Deactivate(ctx context.Context, raw string) error {
	query := `UPDATE tokens SET is_active = false WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, raw); err != nil {
		return fmt.Errorf("failed to deactivate token: %w", err)
	}
	return nil
}

func (r *tokenRepository) DeactivateAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE tokens SET is_active = false WHERE user_id = $1 AND is_active = true`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to deactivate user tokens: %w", err)
	}
	return nil
}

func (r *tokenRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Token, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at, user_agent, ip_address, is_active
		FROM tokens
		WHERE user_id = $1 AND is_active = true
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*domain.Token
	for rows.Next() {
		token := &domain.Token{}
		err := rows.Scan(
			&token.ID, &token.UserID, &token.Token, &token.ExpiresAt, &token.CreatedAt,
			&token.UserAgent, &token.IPAddress, &token.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tokens: %w", err)
	}
	return tokens, nil
}

func (r *tokenRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	query := `UPDATE tokens SET is_active = false WHERE is_active = true AND expires_at < NOW()`
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired tokens: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return count, nil
}
