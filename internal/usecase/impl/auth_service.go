// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	tokens    service.TokenSource
	logger    *slog.Logger
}

// AuthServiceParams holds dependencies for the auth service, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Tokens    service.TokenSource
	Logger    *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		tokens:    params.Tokens,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new identity unless the email is already taken.
//
// The lookup and insert run in one transaction, and the users table carries a
// unique index on email, so two concurrent registrations for the same address
// cannot both succeed: the race loser's insert fails the constraint and is
// reported as ErrAlreadyRegistered, same as the lookup hit.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.User, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	var registered *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, err := userRepo.FindOne(ctx, repository.ByEmail(input.Email))
		if err == nil {
			return errors.Wrap(domainerrors.ErrAlreadyRegistered, "email already registered")
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			// Store misbehavior, not a duplicate: propagate unchanged.
			return errors.Wrap(err, "failed to check email for registration")
		}

		hashed, err := srv.hasher.Hash(input.Password)
		if err != nil {
			srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

			return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
		}

		registered, err = userRepo.Insert(ctx, input.Email, hashed)
		if err != nil {
			return errors.Wrap(err, "failed to insert user during registration")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registered.ID))

	return registered, nil
}

// ValidLogin checks the email/password pair against the stored hash. It never
// mutates state, and an unknown email is a plain false so the outcome shape
// does not leak whether the address is registered.
func (srv *authService) ValidLogin(ctx context.Context, input usecase.LoginInput) (bool, error) {
	user, err := srv.userRepo.FindOne(ctx, repository.ByEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}

		return false, errors.Wrap(err, "failed to find user for login")
	}

	return srv.hasher.Check(input.Password, user.HashedPassword), nil
}

// CreateSession issues a fresh session token for the given email. A prior
// token is overwritten, never appended: at most one live session per identity.
func (srv *authService) CreateSession(ctx context.Context, email string) (string, error) {
	user, err := srv.userRepo.FindOne(ctx, repository.ByEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil
		}

		return "", errors.Wrap(err, "failed to find user for session creation")
	}

	token := srv.tokens.NewToken()
	if err := srv.userRepo.Update(ctx, user.ID, repository.UserChanges{SessionToken: &token}); err != nil {
		return "", errors.Wrap(err, "failed to store session token")
	}

	srv.log(ctx).Debug("Session created", slog.Any("userID", user.ID))

	return token, nil
}

// FindByEmail returns the identity registered under email, or nil when the
// address is unknown.
func (srv *authService) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := srv.userRepo.FindOne(ctx, repository.ByEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return user, nil
}

// ResolveSession looks up the identity holding the given session token.
func (srv *authService) ResolveSession(ctx context.Context, sessionToken string) (*entity.User, error) {
	if sessionToken == "" {
		return nil, nil
	}

	user, err := srv.userRepo.FindOne(ctx, repository.BySessionToken(sessionToken))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to resolve session token")
	}

	return user, nil
}

// DestroySession clears the identity's session token. Clearing an already
// empty token is not an error.
func (srv *authService) DestroySession(ctx context.Context, userID uuid.UUID) error {
	empty := ""
	if err := srv.userRepo.Update(ctx, userID, repository.UserChanges{SessionToken: &empty}); err != nil {
		return errors.Wrap(err, "failed to clear session token")
	}

	srv.log(ctx).Debug("Session destroyed", slog.Any("userID", userID))

	return nil
}

// RequestPasswordReset issues a reset token for the given email, overwriting
// any pending one. The session token is untouched; reset state is orthogonal
// to session state.
func (srv *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := srv.userRepo.FindOne(ctx, repository.ByEmail(email))
	if err != nil {
		srv.log(ctx).Warn("Password reset requested for unknown user", slog.Any("error", err))

		return "", errors.Wrap(domainerrors.ErrUnknownUser, "password reset requested for unknown email")
	}

	token := srv.tokens.NewToken()
	if err := srv.userRepo.Update(ctx, user.ID, repository.UserChanges{ResetToken: &token}); err != nil {
		return "", errors.Wrap(err, "failed to store reset token")
	}

	srv.log(ctx).Info("Password reset token issued", slog.Any("userID", user.ID))

	return token, nil
}

// UpdatePassword consumes a reset token. The new hash is stored and the token
// cleared in a single update, so a consumed token can never be replayed.
func (srv *authService) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		return errors.Wrap(domainerrors.ErrInvalidResetToken, "empty reset token")
	}

	user, err := srv.userRepo.FindOne(ctx, repository.ByResetToken(resetToken))
	if err != nil {
		srv.log(ctx).Warn("Password update with invalid reset token", slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrInvalidResetToken, "reset token not recognized")
	}

	hashed, err := srv.hasher.Hash(newPassword)
	if err != nil {
		srv.log(ctx).Error("Failed to hash new password", slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash new password")
	}

	empty := ""
	changes := repository.UserChanges{HashedPassword: &hashed, ResetToken: &empty}
	if err := srv.userRepo.Update(ctx, user.ID, changes); err != nil {
		return errors.Wrap(err, "failed to update password")
	}

	srv.log(ctx).Info("Password updated", slog.Any("userID", user.ID))

	return nil
}
