package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account. Two kinds exist:
//
//   - registered users, identified by a unique email with a bcrypt password
//     hash
//   - guest users, identified by a nickname (unique case-insensitively among
//     guests) with no email or password; guest accounts carry an expiry
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Email is the user's email address (unique). Empty for guests.
	Email string `json:"email,omitempty"`

	// Nickname is the guest display name. Empty for registered users.
	Nickname string `json:"nickname,omitempty"`

	// PasswordHash is the bcrypt hash of the password. Empty for guests.
	PasswordHash string `json:"-"`

	// IsGuest marks guest accounts.
	IsGuest bool `json:"guest,omitempty"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created"`

	// GuestExpiresAt is the Unix timestamp after which a guest account is
	// considered stale. Zero for registered users.
	GuestExpiresAt int64 `json:"-"`
}

// NewUser creates a registered user with a fresh ID.
func NewUser(email, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// NewGuest creates a guest user with the given nickname and lifetime.
func NewGuest(nickname string, lifetime time.Duration) *User {
	now := time.Now()
	return &User{
		ID:             uuid.New().String(),
		Nickname:       nickname,
		IsGuest:        true,
		CreatedAt:      now.Unix(),
		GuestExpiresAt: now.Add(lifetime).Unix(),
	}
}
