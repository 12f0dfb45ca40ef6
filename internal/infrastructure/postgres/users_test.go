package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit/authkit/internal/domain"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestUserRepo_GetByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepo(mock)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT user_id, email, password_hash, email_verified, created_at, updated_at`).
		WithArgs("a@b.com").
		WillReturnRows(pgxmock.
			NewRows([]string{"user_id", "email", "password_hash", "email_verified", "created_at", "updated_at"}).
			AddRow("u1", "a@b.com", "hash", false, now, now))

	u, err := repo.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	assert.Equal(t, "a@b.com", u.Email)
	assert.False(t, u.EmailVerified)
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepo(mock)

	mock.ExpectQuery(`SELECT user_id`).
		WithArgs("missing@b.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@b.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUserRepo_Insert_UniqueViolationMapsToConflict(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepo(mock)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("u1", "a@b.com", "hash", false, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	now := time.Now().UTC()
	err := repo.Insert(context.Background(), &domain.User{
		UserID:       "u1",
		Email:        "a@b.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestUserRepo_MarkEmailVerified_UnknownUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepo(mock)

	mock.ExpectExec(`UPDATE users SET email_verified`).
		WithArgs("nope").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkEmailVerified(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
