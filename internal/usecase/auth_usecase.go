// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"gatekeeper/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginInput defines the data required to check credentials.
type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// AuthUsecase is the session/credential lifecycle manager. It owns the rules
// governing how an identity, its hashed credential, its session token and its
// reset token interact across registration, login, logout and password reset.
//
// Expected failures (wrong password, unknown session) surface as booleans or
// nil results; AppError values cover user-visible rejections; anything else
// is a fatal store failure for the caller to propagate.
type AuthUsecase interface {
	// Register creates a new identity. Fails with domainerrors.ErrAlreadyRegistered
	// when the email is already taken.
	Register(ctx context.Context, input RegisterInput) (*entity.User, error)

	// ValidLogin reports whether the email/password pair matches a stored
	// identity. Pure check, no state mutation; an unknown email is a normal
	// false, not an error.
	ValidLogin(ctx context.Context, input LoginInput) (bool, error)

	// CreateSession issues a fresh opaque session token for the identity with
	// the given email, overwriting any previous token. Returns "" when the
	// email is unknown. It does not re-verify the password; callers must only
	// invoke it after a successful ValidLogin.
	CreateSession(ctx context.Context, email string) (string, error)

	// FindByEmail returns the identity registered under email, or nil when no
	// such identity exists.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// ResolveSession returns the identity holding the given session token, or
	// nil when the token is empty or unknown.
	ResolveSession(ctx context.Context, sessionToken string) (*entity.User, error)

	// DestroySession clears the identity's session token. Idempotent.
	DestroySession(ctx context.Context, userID uuid.UUID) error

	// RequestPasswordReset issues a single-use reset token for the identity
	// with the given email, overwriting any prior pending token. Fails with
	// domainerrors.ErrUnknownUser when the email is unknown.
	RequestPasswordReset(ctx context.Context, email string) (string, error)

	// UpdatePassword consumes a reset token: it replaces the identity's hashed
	// credential with a hash of newPassword and clears the reset token in the
	// same update. Fails with domainerrors.ErrInvalidResetToken when the token
	// is unknown or already used.
	UpdatePassword(ctx context.Context, resetToken, newPassword string) error
}
