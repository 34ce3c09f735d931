package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/vibeshare/vibeshare/internal/core/domain"
	"github.com/vibeshare/vibeshare/internal/core/ports"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	tokenKey    contextKey = "token"
)

// Authenticator gates requests behind a valid bearer token. On success the
// resolved user and session record are attached to the request context.
type Authenticator struct {
	sessions ports.SessionService
}

func NewAuthenticator(sessions ports.SessionService) *Authenticator {
	return &Authenticator{sessions: sessions}
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			respondError(w, domain.ErrNoToken)
			return
		}

		user, record, err := a.sessions.Verify(r.Context(), raw)
		if err != nil {
			respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, user)
		ctx = context.WithValue(ctx, tokenKey, record)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

func identityFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(identityKey).(*domain.User)
	return user, ok
}

func tokenFromContext(ctx context.Context) (*domain.Token, bool) {
	token, ok := ctx.Value(tokenKey).(*domain.Token)
	return token, ok
}
