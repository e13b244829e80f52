package models

import "time"

type VerificationType string

const (
	VerificationEmail VerificationType = "email_verification"
)

type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    []byte
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Session struct {
	ID        string
	UserID    string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given
// instant. The expiry check is load-bearing: a session row may outlive its
// validity until housekeeping removes it.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type VerificationCode struct {
	ID        string
	UserID    string
	Code      string
	Type      VerificationType
	CreatedAt time.Time
	ExpiresAt time.Time
}
