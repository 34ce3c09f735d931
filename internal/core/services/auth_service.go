package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vibeshare/vibeshare/internal/core/domain"
	"github.com/vibeshare/vibeshare/internal/core/ports"
)

const (
	minPasswordLength   = 6
	maxProfileImageSize = 5 * 1024 * 1024
)

type authService struct {
	users    ports.UserRepository
	sessions ports.SessionService
	hasher   ports.PasswordHasher
	store    ports.ObjectStore
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionService, hasher ports.PasswordHasher, store ports.ObjectStore) ports.AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		store:    store,
	}
}

func (s *authService) Signup(ctx context.Context, input ports.SignupInput, device domain.DeviceContext) (*domain.User, string, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	userType := domain.UserType(strings.ToLower(input.UserType))

	if name == "" || email == "" || input.Password == "" || input.UserType == "" {
		return nil, "", domain.NewValidationError("all fields required")
	}
	if !userType.Valid() {
		return nil, "", domain.NewValidationError("userType must be consumer or creator")
	}
	if userType == domain.UserTypeCreator && input.ProfileImage == nil && input.ProfileImageURL == "" {
		return nil, "", domain.NewValidationError("profile image required for creators")
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", domain.NewValidationError("password must be at least 6 characters")
	}

	existing, err := s.users.GetByEmailAndType(ctx, email, userType)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, "", domain.ErrDuplicateAccount
	}

	profileImageURL := input.ProfileImageURL
	if input.ProfileImage != nil {
		profileImageURL, err = s.uploadProfileImage(ctx, email, input.ProfileImage)
		if err != nil {
			return nil, "", err
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		UserType:     userType,
		ProfileImage: profileImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Issue(ctx, user, device)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, input ports.LoginInput, device domain.DeviceContext) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	userType := domain.UserType(strings.ToLower(input.UserType))

	if email == "" || input.Password == "" {
		return nil, "", domain.NewValidationError("email and password required")
	}
	if !userType.Valid() {
		return nil, "", domain.NewValidationError("userType must be consumer or creator")
	}

	user, err := s.users.GetByEmailAndType(ctx, email, userType)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil || !s.hasher.Compare(input.Password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(ctx, user, device)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) uploadProfileImage(ctx context.Context, email string, upload *ports.Upload) (string, error) {
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return "", domain.NewValidationError("profile image must be an image file")
	}
	if upload.Size > maxProfileImageSize {
		return "", domain.NewValidationError("profile image must be less than 5MB")
	}

	name := fmt.Sprintf("profile-%s-%d.%s", sanitizeForBlobName(email), time.Now().UnixMilli(), fileExtension(upload.Name, "jpg"))
	url, err := s.store.Upload(ctx, upload.Data, name, upload.ContentType, "image")
	if err != nil {
		return "", fmt.Errorf("failed to upload profile image to storage: %w", err)
	}
	return url, nil
}

func sanitizeForBlobName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func fileExtension(name, fallback string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return fallback
}
