package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	mockRepo "gatekeeper/internal/mocks/repository"
	mockService "gatekeeper/internal/mocks/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service  usecase.AuthUsecase
	userRepo *mockRepo.MockUserRepository
	hasher   *mockService.MockPasswordHasher
	tokens   *mockService.MockTokenSource
}

func createTestAuthService(t *testing.T, tokens ...string) authServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockService.NewMockPasswordHasher(t)
	tokenSource := mockService.NewMockTokenSource(tokens...)

	service := NewAuthService(AuthServiceParams{
		TxManager: mockRepo.NewMockTransactionManager(userRepo),
		UserRepo:  userRepo,
		Hasher:    hasher,
		Tokens:    tokenSource,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return authServiceFixtures{
		service:  service,
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokenSource,
	}
}

func TestAuthService_Register_NewEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	created := &entity.User{ID: uuid.New(), Email: "bob@example.com", HashedPassword: "hashed"}

	fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).
		Return(nil, repository.ErrUserNotFound)
	fx.hasher.On("Hash", "SuperSecret").Return("hashed", nil)
	fx.userRepo.On("Insert", ctx, "bob@example.com", "hashed").Return(created, nil)

	user, err := fx.service.Register(ctx, usecase.RegisterInput{Email: "bob@example.com", Password: "SuperSecret"})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, "hashed", user.HashedPassword)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	existing := &entity.User{ID: uuid.New(), Email: "bob@example.com"}

	fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).
		Return(existing, nil)

	user, err := fx.service.Register(ctx, usecase.RegisterInput{Email: "bob@example.com", Password: "whatever"})
	require.Error(t, err)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyRegistered)
}

func TestAuthService_Register_DuplicateLosesInsertRace(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()

	fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).
		Return(nil, repository.ErrUserNotFound)
	fx.hasher.On("Hash", "SuperSecret").Return("hashed", nil)
	// A concurrent registration won the insert; the unique index rejects ours.
	fx.userRepo.On("Insert", ctx, "bob@example.com", "hashed").
		Return(nil, domainerrors.ErrAlreadyRegistered)

	_, err := fx.service.Register(ctx, usecase.RegisterInput{Email: "bob@example.com", Password: "SuperSecret"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyRegistered)
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()

	fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).
		Return(nil, repository.ErrUserNotFound)
	fx.hasher.On("Hash", "SuperSecret").Return("", errors.New("cost out of range"))

	_, err := fx.service.Register(ctx, usecase.RegisterInput{Email: "bob@example.com", Password: "SuperSecret"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
}

func TestAuthService_Register_StoreFailurePropagates(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	storeErr := errors.New("connection reset")

	fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).
		Return(nil, storeErr)

	_, err := fx.service.Register(ctx, usecase.RegisterInput{Email: "bob@example.com", Password: "SuperSecret"})
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, domainerrors.ErrAlreadyRegistered)
}

func TestAuthService_ValidLogin(t *testing.T) {
	ctx := context.Background()
	stored := &entity.User{ID: uuid.New(), Email: "bob@example.com", HashedPassword: "hashed"}

	t.Run("correct password", func(t *testing.T) {
		fx := createTestAuthService(t)
		fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).Return(stored, nil)
		fx.hasher.On("Check", "SuperSecret", "hashed").Return(true)

		valid, err := fx.service.ValidLogin(ctx, usecase.LoginInput{Email: "bob@example.com", Password: "SuperSecret"})
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := createTestAuthService(t)
		fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).Return(stored, nil)
		fx.hasher.On("Check", "nope", "hashed").Return(false)

		valid, err := fx.service.ValidLogin(ctx, usecase.LoginInput{Email: "bob@example.com", Password: "nope"})
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("unknown email is false not error", func(t *testing.T) {
		fx := createTestAuthService(t)
		fx.userRepo.On("FindOne", ctx, repository.ByEmail("ghost@example.com")).
			Return(nil, repository.ErrUserNotFound)

		valid, err := fx.service.ValidLogin(ctx, usecase.LoginInput{Email: "ghost@example.com", Password: "whatever"})
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		fx := createTestAuthService(t)
		fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).
			Return(nil, errors.New("connection reset"))

		valid, err := fx.service.ValidLogin(ctx, usecase.LoginInput{Email: "bob@example.com", Password: "SuperSecret"})
		require.Error(t, err)
		assert.False(t, valid)
	})
}

func TestAuthService_CreateSession_IssuesAndStoresToken(t *testing.T) {
	fx := createTestAuthService(t, "token-1")

	ctx := context.Background()
	stored := &entity.User{ID: uuid.New(), Email: "bob@example.com"}

	fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).Return(stored, nil)
	fx.userRepo.On("Update", ctx, stored.ID, mock.MatchedBy(func(changes repository.UserChanges) bool {
		return changes.SessionToken != nil && *changes.SessionToken == "token-1" &&
			changes.HashedPassword == nil && changes.ResetToken == nil
	})).Return(nil)

	token, err := fx.service.CreateSession(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
}

func TestAuthService_CreateSession_OverwritesPreviousToken(t *testing.T) {
	fx := createTestAuthService(t, "token-2")

	ctx := context.Background()
	stored := &entity.User{ID: uuid.New(), Email: "bob@example.com", SessionToken: "token-1"}

	fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).Return(stored, nil)
	fx.userRepo.On("Update", ctx, stored.ID, mock.MatchedBy(func(changes repository.UserChanges) bool {
		return changes.SessionToken != nil && *changes.SessionToken == "token-2"
	})).Return(nil)

	token, err := fx.service.CreateSession(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
}

func TestAuthService_CreateSession_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t, "token-1")

	ctx := context.Background()
	fx.userRepo.On("FindOne", ctx, repository.ByEmail("ghost@example.com")).
		Return(nil, repository.ErrUserNotFound)

	token, err := fx.service.CreateSession(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestAuthService_ResolveSession(t *testing.T) {
	ctx := context.Background()

	t.Run("empty token short-circuits", func(t *testing.T) {
		fx := createTestAuthService(t)

		user, err := fx.service.ResolveSession(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("unknown token is anonymous", func(t *testing.T) {
		fx := createTestAuthService(t)
		fx.userRepo.On("FindOne", ctx, repository.BySessionToken("bogus")).
			Return(nil, repository.ErrUserNotFound)

		user, err := fx.service.ResolveSession(ctx, "bogus")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("live token resolves its holder", func(t *testing.T) {
		fx := createTestAuthService(t)
		stored := &entity.User{ID: uuid.New(), Email: "bob@example.com", SessionToken: "token-1"}
		fx.userRepo.On("FindOne", ctx, repository.BySessionToken("token-1")).Return(stored, nil)

		user, err := fx.service.ResolveSession(ctx, "token-1")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, stored.ID, user.ID)
	})
}

func TestAuthService_DestroySession_ClearsToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.userRepo.On("Update", ctx, userID, mock.MatchedBy(func(changes repository.UserChanges) bool {
		return changes.SessionToken != nil && *changes.SessionToken == ""
	})).Return(nil)

	require.NoError(t, fx.service.DestroySession(ctx, userID))
}

func TestAuthService_FindByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		fx := createTestAuthService(t)
		stored := &entity.User{ID: uuid.New(), Email: "bob@example.com"}
		fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).Return(stored, nil)

		user, err := fx.service.FindByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "bob@example.com", user.Email)
	})

	t.Run("unknown", func(t *testing.T) {
		fx := createTestAuthService(t)
		fx.userRepo.On("FindOne", ctx, repository.ByEmail("ghost@example.com")).
			Return(nil, repository.ErrUserNotFound)

		user, err := fx.service.FindByEmail(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("issues and stores token", func(t *testing.T) {
		fx := createTestAuthService(t, "reset-1")
		stored := &entity.User{ID: uuid.New(), Email: "bob@example.com"}

		fx.userRepo.On("FindOne", ctx, repository.ByEmail("bob@example.com")).Return(stored, nil)
		fx.userRepo.On("Update", ctx, stored.ID, mock.MatchedBy(func(changes repository.UserChanges) bool {
			return changes.ResetToken != nil && *changes.ResetToken == "reset-1" &&
				changes.SessionToken == nil && changes.HashedPassword == nil
		})).Return(nil)

		token, err := fx.service.RequestPasswordReset(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, "reset-1", token)
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		fx := createTestAuthService(t, "reset-1")
		fx.userRepo.On("FindOne", ctx, repository.ByEmail("ghost@example.com")).
			Return(nil, repository.ErrUserNotFound)

		token, err := fx.service.RequestPasswordReset(ctx, "ghost@example.com")
		require.Error(t, err)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, domainerrors.ErrUnknownUser)
	})
}

func TestAuthService_UpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes the token in a single update", func(t *testing.T) {
		fx := createTestAuthService(t)
		stored := &entity.User{ID: uuid.New(), Email: "bob@example.com", ResetToken: "reset-1"}

		fx.userRepo.On("FindOne", ctx, repository.ByResetToken("reset-1")).Return(stored, nil)
		fx.hasher.On("Hash", "NewSecret").Return("newhash", nil)
		fx.userRepo.On("Update", ctx, stored.ID, mock.MatchedBy(func(changes repository.UserChanges) bool {
			return changes.HashedPassword != nil && *changes.HashedPassword == "newhash" &&
				changes.ResetToken != nil && *changes.ResetToken == ""
		})).Return(nil)

		require.NoError(t, fx.service.UpdatePassword(ctx, "reset-1", "NewSecret"))
	})

	t.Run("empty token is invalid", func(t *testing.T) {
		fx := createTestAuthService(t)

		err := fx.service.UpdatePassword(ctx, "", "NewSecret")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidResetToken)
	})

	t.Run("unknown token is invalid", func(t *testing.T) {
		fx := createTestAuthService(t)
		fx.userRepo.On("FindOne", ctx, repository.ByResetToken("bogus")).
			Return(nil, repository.ErrUserNotFound)

		err := fx.service.UpdatePassword(ctx, "bogus", "NewSecret")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidResetToken)
	})

	t.Run("consumed token cannot be replayed", func(t *testing.T) {
		fx := createTestAuthService(t)
		stored := &entity.User{ID: uuid.New(), Email: "bob@example.com", ResetToken: "reset-1"}

		fx.userRepo.On("FindOne", ctx, repository.ByResetToken("reset-1")).Return(stored, nil).Once()
		fx.hasher.On("Hash", "NewSecret").Return("newhash", nil).Once()
		fx.userRepo.On("Update", ctx, stored.ID, mock.Anything).Return(nil).Once()

		require.NoError(t, fx.service.UpdatePassword(ctx, "reset-1", "NewSecret"))

		// The first update cleared the token, so the store no longer finds it.
		fx.userRepo.On("FindOne", ctx, repository.ByResetToken("reset-1")).
			Return(nil, repository.ErrUserNotFound).Once()

		err := fx.service.UpdatePassword(ctx, "reset-1", "AnotherSecret")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidResetToken)
	})
}
