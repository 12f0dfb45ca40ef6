package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/authkit/authkit/internal/domain"
)

// VerificationTokenRepo provides typed Postgres operations for the
// verification_tokens table.
type VerificationTokenRepo struct {
	db Querier
}

func NewVerificationTokenRepo(db Querier) *VerificationTokenRepo {
	return &VerificationTokenRepo{db: db}
}

func (r *VerificationTokenRepo) Insert(ctx context.Context, t *domain.VerificationToken) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO verification_tokens (token_id, user_id, token, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.TokenID, t.UserID, t.Token, t.ExpiresAt, t.CreatedAt)
	if err != nil {
		return mapError("insert verification token", err)
	}
	return nil
}

func (r *VerificationTokenRepo) GetByToken(ctx context.Context, token string) (*domain.VerificationToken, error) {
	var t domain.VerificationToken
	err := pgxscan.Get(ctx, r.db, &t,
		`SELECT token_id, user_id, token, expires_at, created_at
		   FROM verification_tokens
		  WHERE token = $1`, token)
	if err != nil {
		return nil, mapError("get verification token", err)
	}
	return &t, nil
}

// Delete removes the token row. Deleting an already-deleted token reports
// ErrNotFound so callers can tell consumption apart from a lost race.
func (r *VerificationTokenRepo) Delete(ctx context.Context, tokenID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM verification_tokens WHERE token_id = $1`, tokenID)
	if err != nil {
		return mapError("delete verification token", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete verification token: %w", domain.ErrNotFound)
	}
	return nil
}

// PasswordResetTokenRepo provides typed Postgres operations for the
// password_reset_tokens table.
type PasswordResetTokenRepo struct {
	db Querier
}

func NewPasswordResetTokenRepo(db Querier) *PasswordResetTokenRepo {
	return &PasswordResetTokenRepo{db: db}
}

func (r *PasswordResetTokenRepo) Insert(ctx context.Context, t *domain.PasswordResetToken) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO password_reset_tokens (token_id, user_id, token, expires_at, used, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.TokenID, t.UserID, t.Token, t.ExpiresAt, t.Used, t.CreatedAt)
	if err != nil {
		return mapError("insert reset token", err)
	}
	return nil
}

func (r *PasswordResetTokenRepo) GetByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	var t domain.PasswordResetToken
	err := pgxscan.Get(ctx, r.db, &t,
		`SELECT token_id, user_id, token, expires_at, used, created_at
		   FROM password_reset_tokens
		  WHERE token = $1`, token)
	if err != nil {
		return nil, mapError("get reset token", err)
	}
	return &t, nil
}

// MarkUsed consumes the token with a conditional update: the guard on used
// makes consumption atomic, so two concurrent submits of the same token
// cannot both claim it. A lost race reports ErrConflict.
func (r *PasswordResetTokenRepo) MarkUsed(ctx context.Context, tokenID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE password_reset_tokens SET used = TRUE WHERE token_id = $1 AND used = FALSE`,
		tokenID)
	if err != nil {
		return mapError("mark reset token used", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reset token already consumed: %w", domain.ErrConflict)
	}
	return nil
}
