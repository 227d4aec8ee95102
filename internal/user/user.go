package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account able to sign in and stamp audit fields.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	PasswordSalt string
	PhoneNumber  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
