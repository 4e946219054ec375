// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Insert persists a new identity record with empty session and reset tokens.
// The unique index on email is the final authority on duplicates; a violation
// surfaces as the domain's ErrAlreadyRegistered.
func (repo *userRepository) Insert(ctx context.Context, email, hashedPassword string) (*entity.User, error) {
	userM := &model.UserModel{
		Email:          email,
		HashedPassword: hashedPassword,
	}

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return nil, domainerrors.ErrAlreadyRegistered.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return nil, domainerrors.NewDatabaseExecuteError(err, "missing required user information")
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to insert user")
	}

	return toUserDomain(userM), nil
}

// FindOne retrieves the single record matching the filter. Because every
// filterable field is unique, the query probes for two rows: a second match
// means the store's invariants are broken and the caller must not silently
// pick one.
func (repo *userRepository) FindOne(ctx context.Context, filter repository.UserFilter) (*entity.User, error) {
	if filter.IsZero() {
		return nil, repository.ErrEmptyFilter
	}

	query := repo.db.WithContext(ctx).Model(&model.UserModel{})
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.SessionToken != nil {
		query = query.Where("session_token = ?", *filter.SessionToken)
	}
	if filter.ResetToken != nil {
		query = query.Where("reset_token = ?", *filter.ResetToken)
	}

	var matches []model.UserModel
	if err := query.Limit(2).Find(&matches).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}

	switch len(matches) {
	case 0:
		return nil, repository.ErrUserNotFound
	case 1:
		return toUserDomain(&matches[0]), nil
	default:
		return nil, repository.ErrAmbiguousFilter
	}
}

// Update applies the given changes to the record with that id in a single
// UPDATE statement. Explicitly listed columns let empty strings through, which
// is how tokens are cleared.
func (repo *userRepository) Update(ctx context.Context, id uuid.UUID, changes repository.UserChanges) error {
	if changes.IsZero() {
		return repository.ErrEmptyUpdate
	}

	columns := map[string]any{}
	if changes.HashedPassword != nil {
		columns["hashed_password"] = *changes.HashedPassword
	}
	if changes.SessionToken != nil {
		columns["session_token"] = *changes.SessionToken
	}
	if changes.ResetToken != nil {
		columns["reset_token"] = *changes.ResetToken
	}

	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(columns)

	if err := result.Error; err != nil {
		if isUniqueConstraintViolation(err) {
			// Two identical live tokens would break the reverse-lookup invariant.
			return domainerrors.NewDatabaseExecuteError(err, "token collision on update")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:             data.ID,
		Email:          data.Email,
		HashedPassword: data.HashedPassword,
		SessionToken:   data.SessionToken,
		ResetToken:     data.ResetToken,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
