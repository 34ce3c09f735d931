package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/vibeshare/vibeshare/internal/core/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Message: message})
}

// respondError translates the domain error taxonomy into status codes.
// Authentication failures keep their short reason strings so clients can tell
// an expired session from a revoked one.
func respondError(w http.ResponseWriter, err error) {
	if domain.IsValidationError(err) {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateAccount):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoToken),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenRevoked),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrCommentNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	default:
		respondMessage(w, http.StatusInternalServerError, err.Error())
	}
}

// clientIP trusts middleware.RealIP to have rewritten RemoteAddr from the
// forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
