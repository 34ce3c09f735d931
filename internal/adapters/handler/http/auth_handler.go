package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/vibeshare/vibeshare/internal/core/domain"
	"github.com/vibeshare/vibeshare/internal/core/ports"
)

const maxMultipartMemory = 32 << 20

type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionService
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
	}
}

type signupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	UserType     string `json:"userType"`
	ProfileImage string `json:"profileImage"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input ports.SignupInput

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		input = ports.SignupInput{
			Name:     r.FormValue("name"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			UserType: r.FormValue("userType"),
		}
		upload, err := readUpload(r, "profileImage")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		input.ProfileImage = upload
	} else {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		input = ports.SignupInput{
			Name:            req.Name,
			Email:           req.Email,
			Password:        req.Password,
			UserType:        req.UserType,
			ProfileImageURL: req.ProfileImage,
		}
	}

	user, token, err := h.auth.Signup(r.Context(), input, deviceContext(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		UserType: req.UserType,
	}, deviceContext(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Logout revokes the presented token. Revocation is idempotent, so a missing
// or unknown token still answers 200.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if raw := bearerToken(r); raw != "" {
		if err := h.sessions.Revoke(r.Context(), raw); err != nil {
			respondError(w, err)
			return
		}
	}
	respondMessage(w, http.StatusOK, "logged out successfully")
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrNoToken)
		return
	}
	if err := h.sessions.RevokeAll(r.Context(), user.ID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "logged out from all devices")
}

type sessionsResponse struct {
	Tokens []domain.SessionInfo `json:"tokens"`
}

func (h *AuthHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFromContext(r.Context())
	record, okToken := tokenFromContext(r.Context())
	if !ok || !okToken {
		respondError(w, domain.ErrNoToken)
		return
	}

	sessions, err := h.sessions.Sessions(r.Context(), user.ID, record.Token)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionsResponse{Tokens: sessions})
}

func deviceContext(r *http.Request) domain.DeviceContext {
	return domain.DeviceContext{
		UserAgent: r.UserAgent(),
		IPAddress: clientIP(r),
	}
}

func isMultipart(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data")
}

// readUpload pulls an optional file out of a parsed multipart form. A missing
// file is not an error.
func readUpload(r *http.Request, field string) (*ports.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &ports.Upload{
		Data:        data,
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, nil
}
