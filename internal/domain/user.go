package domain

import "time"

// User is the identity record owned by the credential store. Emails are
// stored lowercased and trimmed; the unique index on email, not the
// application-level lookup, is the duplicate guard.
type User struct {
	UserID        string    `json:"id" db:"user_id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	EmailVerified bool      `json:"email_verified" db:"email_verified"`
	CreatedAt     time.Time `json:"created" db:"created_at"`
	UpdatedAt     time.Time `json:"updated" db:"updated_at"`
}
