package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/authkit/authkit/internal/domain"
)

// UserRepo provides typed Postgres operations for the users table.
type UserRepo struct {
	db Querier
}

func NewUserRepo(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

// GetByEmail looks up a user by its normalized email. Callers are expected
// to lowercase and trim the email before calling.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := pgxscan.Get(ctx, r.db, &u,
		`SELECT user_id, email, password_hash, email_verified, created_at, updated_at
		   FROM users
		  WHERE email = $1`, email)
	if err != nil {
		return nil, mapError("get user by email", err)
	}
	return &u, nil
}

func (r *UserRepo) Insert(ctx context.Context, u *domain.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (user_id, email, password_hash, email_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.UserID, u.Email, u.PasswordHash, u.EmailVerified, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return mapError("insert user", err)
	}
	return nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE user_id = $1`,
		userID, hash)
	if err != nil {
		return mapError("update password hash", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update password hash: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *UserRepo) MarkEmailVerified(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET email_verified = TRUE, updated_at = now() WHERE user_id = $1`,
		userID)
	if err != nil {
		return mapError("mark email verified", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark email verified: %w", domain.ErrNotFound)
	}
	return nil
}
