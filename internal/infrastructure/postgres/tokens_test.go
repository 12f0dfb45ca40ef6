package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit/authkit/internal/domain"
)

func TestVerificationTokenRepo_GetByToken_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewVerificationTokenRepo(mock)

	mock.ExpectQuery(`SELECT token_id, user_id, token, expires_at, created_at`).
		WithArgs("deadbeef").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByToken(context.Background(), "deadbeef")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVerificationTokenRepo_Delete_AlreadyGone(t *testing.T) {
	mock := newMockPool(t)
	repo := NewVerificationTokenRepo(mock)

	mock.ExpectExec(`DELETE FROM verification_tokens`).
		WithArgs("vt1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "vt1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPasswordResetTokenRepo_GetByToken(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPasswordResetTokenRepo(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT token_id, user_id, token, expires_at, used, created_at`).
		WithArgs("cafe").
		WillReturnRows(pgxmock.
			NewRows([]string{"token_id", "user_id", "token", "expires_at", "used", "created_at"}).
			AddRow("rt1", "u1", "cafe", now.Add(time.Hour), false, now))

	tok, err := repo.GetByToken(context.Background(), "cafe")
	require.NoError(t, err)
	assert.Equal(t, "rt1", tok.TokenID)
	assert.Equal(t, "u1", tok.UserID)
	assert.False(t, tok.Used)
}

func TestPasswordResetTokenRepo_MarkUsed(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPasswordResetTokenRepo(mock)

	mock.ExpectExec(`UPDATE password_reset_tokens SET used = TRUE WHERE token_id = \$1 AND used = FALSE`).
		WithArgs("rt1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.MarkUsed(context.Background(), "rt1"))
}

func TestPasswordResetTokenRepo_MarkUsed_LostRace(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPasswordResetTokenRepo(mock)

	// A concurrent request consumed the token first: zero rows match the
	// used = FALSE guard.
	mock.ExpectExec(`UPDATE password_reset_tokens SET used = TRUE`).
		WithArgs("rt1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkUsed(context.Background(), "rt1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
