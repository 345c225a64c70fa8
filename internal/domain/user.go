package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Email is the login identifier and is stored
// lowercased and trimmed; first and last names are normalized the same way.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	PasswordHash  string    `json:"-"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Normalize lowercases and trims the identifying fields in place.
// Call before persisting so lookups by email are case-insensitive.
func (u *User) Normalize() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.FirstName = strings.ToLower(strings.TrimSpace(u.FirstName))
	u.LastName = strings.ToLower(strings.TrimSpace(u.LastName))
}
