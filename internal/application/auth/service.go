// Package auth implements the credential-token flow state machine: login,
// register, forgot-password, reset-password and verify-email. Each flow is a
// stateless function over the injected stores; all persistent state lives in
// the store's records.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/authkit/authkit/internal/domain"
	"github.com/authkit/authkit/internal/pkg/id"
	pkgpassword "github.com/authkit/authkit/internal/pkg/password"
	pkgtoken "github.com/authkit/authkit/internal/pkg/token"
)

// Token lifetimes.
const (
	verificationTokenTTL  = 24 * time.Hour
	passwordResetTokenTTL = time.Hour
)

// Warnings attached to a RegisterResult when registration succeeded in a
// degraded way.
const (
	WarnTokenNotIssued = "verification token not issued"
	WarnEmailNotSent   = "verification email not sent"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// AuthUser is the caller-visible projection of a user record.
type AuthUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// RegisterResult carries the created user plus any non-fatal degradations,
// so callers and tests can tell a degraded success from a full one.
type RegisterResult struct {
	User     AuthUser `json:"user"`
	Warnings []string `json:"warnings,omitempty"`
}

type Service interface {
	Login(ctx context.Context, email, password string) (*AuthUser, error)
	Register(ctx context.Context, email, password string) (*RegisterResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, u *domain.User) error
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	MarkEmailVerified(ctx context.Context, userID string) error
}

type verificationTokenStore interface {
	Insert(ctx context.Context, t *domain.VerificationToken) error
	GetByToken(ctx context.Context, token string) (*domain.VerificationToken, error)
	Delete(ctx context.Context, tokenID string) error
}

type passwordResetTokenStore interface {
	Insert(ctx context.Context, t *domain.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	// MarkUsed must consume the token atomically (set used only if currently
	// unused) and report domain.ErrConflict when the token was already
	// consumed by a concurrent request.
	MarkUsed(ctx context.Context, tokenID string) error
}

// Notifier delivers verification and password-reset emails. Delivery
// failures never change a flow's outcome.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, email, token, baseURL string) error
	SendPasswordResetEmail(ctx context.Context, email, token, baseURL string) error
}

type service struct {
	users       userStore
	verifTokens verificationTokenStore
	resetTokens passwordResetTokenStore
	notifier    Notifier
	appURL      string
}

type ServiceDeps struct {
	UserRepo               userStore
	VerificationTokenRepo  verificationTokenStore
	PasswordResetTokenRepo passwordResetTokenStore
	// Notifier may be nil: flows then run without email delivery.
	Notifier Notifier
	AppURL   string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:       deps.UserRepo,
		verifTokens: deps.VerificationTokenRepo,
		resetTokens: deps.PasswordResetTokenRepo,
		notifier:    deps.Notifier,
		appURL:      deps.AppURL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Login(ctx context.Context, email, password string) (*AuthUser, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Same wording as a wrong password so callers cannot probe for
			// registered accounts.
			return nil, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
		}
		slog.Error("login: user lookup failed", "err", err)
		return nil, fmt.Errorf("login: %w", domain.ErrInternal)
	}
	if !pkgpassword.Verify(password, u.PasswordHash) {
		return nil, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	}
	return &AuthUser{ID: u.UserID, Email: u.Email, EmailVerified: u.EmailVerified}, nil
}

func (s *service) Register(ctx context.Context, email, password string) (*RegisterResult, error) {
	normalized := normalizeEmail(email)

	if _, err := s.users.GetByEmail(ctx, normalized); err == nil {
		return nil, fmt.Errorf("register: %w", domain.ErrDuplicateEmail)
	} else if !errors.Is(err, domain.ErrNotFound) {
		slog.Error("register: duplicate check failed", "err", err)
		return nil, fmt.Errorf("register: %w", domain.ErrInternal)
	}

	hash, err := pkgpassword.Hash(password)
	if err != nil {
		slog.Error("register: hash password", "err", err)
		return nil, fmt.Errorf("register: %w", domain.ErrInternal)
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        normalized,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// The pre-insert lookup can lose a race with a concurrent
			// registration; the unique index on email is the real guard.
			return nil, fmt.Errorf("register: %w", domain.ErrDuplicateEmail)
		}
		slog.Error("register: insert user", "err", err)
		return nil, fmt.Errorf("register: %w", domain.ErrInternal)
	}

	result := &RegisterResult{User: AuthUser{ID: u.UserID, Email: u.Email}}

	// The account exists from here on; verification-token and delivery
	// failures degrade the result instead of failing it.
	verification, err := pkgtoken.New()
	if err != nil {
		slog.Warn("register: generate verification token", "user_id", u.UserID, "err", err)
		result.Warnings = append(result.Warnings, WarnTokenNotIssued)
		return result, nil
	}
	vt := &domain.VerificationToken{
		TokenID:   id.New(),
		UserID:    u.UserID,
		Token:     verification,
		ExpiresAt: now.Add(verificationTokenTTL),
		CreatedAt: now,
	}
	if err := s.verifTokens.Insert(ctx, vt); err != nil {
		slog.Warn("register: insert verification token", "user_id", u.UserID, "err", err)
		result.Warnings = append(result.Warnings, WarnTokenNotIssued)
		return result, nil
	}

	if s.notifier != nil {
		if err := s.notifier.SendVerificationEmail(ctx, normalized, verification, s.appURL); err != nil {
			slog.Warn("register: send verification email", "user_id", u.UserID, "err", err)
			result.Warnings = append(result.Warnings, WarnEmailNotSent)
		}
	}
	return result, nil
}

// ForgotPassword always reports success, whether or not the email is
// registered and whatever happens internally, so neither response shape nor
// error presence can be used to enumerate accounts.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("forgot password: user lookup failed", "err", err)
		}
		return nil
	}

	reset, err := pkgtoken.New()
	if err != nil {
		slog.Warn("forgot password: generate reset token", "user_id", u.UserID, "err", err)
		return nil
	}
	now := time.Now().UTC()
	rt := &domain.PasswordResetToken{
		TokenID:   id.New(),
		UserID:    u.UserID,
		Token:     reset,
		ExpiresAt: now.Add(passwordResetTokenTTL),
		CreatedAt: now,
	}
	if err := s.resetTokens.Insert(ctx, rt); err != nil {
		slog.Warn("forgot password: insert reset token", "user_id", u.UserID, "err", err)
		return nil
	}

	if s.notifier != nil {
		if err := s.notifier.SendPasswordResetEmail(ctx, u.Email, reset, s.appURL); err != nil {
			slog.Warn("forgot password: send reset email", "user_id", u.UserID, "err", err)
		}
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	rt, err := s.resetTokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("reset password: %w", domain.ErrInvalidToken)
		}
		slog.Error("reset password: token lookup failed", "err", err)
		return fmt.Errorf("reset password: %w", domain.ErrInternal)
	}
	if rt.Used {
		// A consumed token reads exactly like a nonexistent one.
		return fmt.Errorf("reset password: %w", domain.ErrInvalidToken)
	}
	if time.Now().After(rt.ExpiresAt) {
		return fmt.Errorf("reset password: %w", domain.ErrTokenExpired)
	}

	hash, err := pkgpassword.Hash(newPassword)
	if err != nil {
		slog.Error("reset password: hash password", "err", err)
		return fmt.Errorf("reset password: %w", domain.ErrInternal)
	}
	if err := s.users.UpdatePasswordHash(ctx, rt.UserID, hash); err != nil {
		// Token stays unconsumed so the request can be retried before expiry.
		slog.Error("reset password: update password hash", "user_id", rt.UserID, "err", err)
		return fmt.Errorf("reset password: %w", domain.ErrInternal)
	}

	if err := s.resetTokens.MarkUsed(ctx, rt.TokenID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// A concurrent submit consumed the token between lookup and update.
			return fmt.Errorf("reset password: %w", domain.ErrInvalidToken)
		}
		slog.Error("reset password: mark token used", "token_id", rt.TokenID, "err", err)
		return fmt.Errorf("reset password: %w", domain.ErrInternal)
	}
	return nil
}

func (s *service) VerifyEmail(ctx context.Context, token string) error {
	vt, err := s.verifTokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("verify email: %w", domain.ErrInvalidToken)
		}
		slog.Error("verify email: token lookup failed", "err", err)
		return fmt.Errorf("verify email: %w", domain.ErrInternal)
	}

	if time.Now().After(vt.ExpiresAt) {
		// Expired tokens are consumed on sight so they can never later race
		// into validity. The expiry check alone keeps an undeleted row
		// unusable, so deletion here is best-effort.
		if err := s.verifTokens.Delete(ctx, vt.TokenID); err != nil {
			slog.Warn("verify email: delete expired token", "token_id", vt.TokenID, "err", err)
		}
		return fmt.Errorf("verify email: %w", domain.ErrTokenExpired)
	}

	if err := s.users.MarkEmailVerified(ctx, vt.UserID); err != nil {
		// Token stays in place so the caller can retry.
		slog.Error("verify email: mark user verified", "user_id", vt.UserID, "err", err)
		return fmt.Errorf("verify email: %w", domain.ErrInternal)
	}

	if err := s.verifTokens.Delete(ctx, vt.TokenID); err != nil {
		// Single use: the token must be gone before success is reported. A
		// retry re-verifies the already-verified user and deletes the token.
		slog.Error("verify email: delete token", "token_id", vt.TokenID, "err", err)
		return fmt.Errorf("verify email: %w", domain.ErrInternal)
	}
	return nil
}
