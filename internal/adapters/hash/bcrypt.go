package hash

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/vibeshare/vibeshare/internal/core/ports"
)

type bcryptHasher struct {
	cost int
}

func NewBcryptHasher() ports.PasswordHasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *bcryptHasher) Compare(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
