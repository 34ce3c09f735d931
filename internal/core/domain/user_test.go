package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatar(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"profile image wins", User{Name: "Alice", ProfileImage: "https://img.example.com/a.png"}, "https://img.example.com/a.png"},
		{"ascii initial", User{Name: "alice"}, "A"},
		{"multi-byte initial", User{Name: "óscar"}, "Ó"},
		{"non-latin initial", User{Name: "李明"}, "李"},
		{"empty name", User{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.Avatar())
		})
	}
}
