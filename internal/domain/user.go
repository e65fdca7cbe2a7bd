package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

func NewUser(email, passwordHash, username string) User {
	now := time.Now().UTC()
	return User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Username:     username,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
