package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is one persisted session record. Many tokens may exist per user, one
// per login. Records are deactivated, never deleted, so revocation does not
// depend on physical cleanup.
type Token struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	IsActive  bool      `json:"-"`
}

// DeviceContext is the request metadata captured at issuance for session
// listing.
type DeviceContext struct {
	UserAgent string
	IPAddress string
}

// SessionInfo is a token record shaped for the session-listing API. The raw
// token value is deliberately absent.
type SessionInfo struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	IsCurrent bool      `json:"isCurrent"`
}
