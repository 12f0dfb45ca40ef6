package domain

import "time"

// VerificationToken proves that a registration email was sent to a reachable
// address. It is created by register and deleted by verify-email, whether the
// verification succeeded or the token had expired. Once deleted it can never
// be looked up again.
type VerificationToken struct {
	TokenID   string    `json:"id" db:"token_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created" db:"created_at"`
}

// PasswordResetToken proves a password-reset request. A token with Used set
// must never authorize another password change, even before its expiry.
type PasswordResetToken struct {
	TokenID   string    `json:"id" db:"token_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"created" db:"created_at"`
}
