package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"

	StatusActive = "active"
)

// User is a storefront or admin account. Email is the login key and must
// be unique. PasswordHash is a bcrypt hash; the plaintext never touches
// the store. PasswordResetPending marks an OTP-reset password awaiting
// admin acknowledgement and is cleared when the reset is approved.
type User struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"passwordHash"`
	Phone                string     `json:"phone"`
	Role                 string     `json:"role"`
	JoinDate             time.Time  `json:"joinDate"`
	Status               string     `json:"status"`
	PasswordResetPending bool       `json:"passwordResetPending,omitempty"`
	PasswordResetDate    *time.Time `json:"passwordResetDate,omitempty"`
}

// RefreshToken is an opaque session token stored server-side so logout can
// revoke it.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	Revoked   bool      `json:"revoked"`
}

// UserStats summarizes the admin user table header cards.
type UserStats struct {
	Total         int `json:"total"`
	Active        int `json:"active"`
	NewUsersToday int `json:"newUsersToday"`
}
