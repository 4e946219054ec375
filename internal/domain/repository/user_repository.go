// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"gatekeeper/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for identity persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrUserNotFound is returned when no identity record matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmptyFilter is returned when FindOne is called with no filter fields set.
	// This indicates a caller bug, not a user-input problem.
	ErrEmptyFilter = errors.New("user filter has no fields set")
	// ErrAmbiguousFilter is returned when a filter on a supposedly unique field
	// matches more than one stored record. Callers must treat this as an error
	// rather than silently picking one of the matches.
	ErrAmbiguousFilter = errors.New("user filter matched more than one record")
	// ErrEmptyUpdate is returned when Update is called with no changes set.
	ErrEmptyUpdate = errors.New("user update has no fields set")
)

// UserFilter selects identity records by exact field matches. Nil fields are
// ignored; at least one must be set. Every filterable field is unique in the
// store, so a well-formed filter matches at most one record.
type UserFilter struct {
	ID           *uuid.UUID
	Email        *string
	SessionToken *string
	ResetToken   *string
}

// IsZero reports whether no filter field is set.
func (f UserFilter) IsZero() bool {
	return f.ID == nil && f.Email == nil && f.SessionToken == nil && f.ResetToken == nil
}

// ByID builds a filter matching a record by its identifier.
func ByID(id uuid.UUID) UserFilter {
	return UserFilter{ID: &id}
}

// ByEmail builds a filter matching a record by email.
func ByEmail(email string) UserFilter {
	return UserFilter{Email: &email}
}

// BySessionToken builds a filter matching the record holding the given session token.
func BySessionToken(token string) UserFilter {
	return UserFilter{SessionToken: &token}
}

// ByResetToken builds a filter matching the record holding the given reset token.
func ByResetToken(token string) UserFilter {
	return UserFilter{ResetToken: &token}
}

// UserChanges describes a partial update to an identity record. Nil fields are
// left untouched; a pointer to the empty string clears the field.
type UserChanges struct {
	HashedPassword *string
	SessionToken   *string
	ResetToken     *string
}

// IsZero reports whether no change is set.
func (c UserChanges) IsZero() bool {
	return c.HashedPassword == nil && c.SessionToken == nil && c.ResetToken == nil
}

// UserRepository defines the standard operations for identity persistence.
// The application layer depends on this interface, not the concrete implementation.
type UserRepository interface {
	// Insert creates a new record with a store-generated ID and empty session
	// and reset tokens. Email uniqueness is ultimately enforced here by the
	// storage engine's unique constraint.
	Insert(ctx context.Context, email, hashedPassword string) (*entity.User, error)

	// FindOne retrieves the single record matching the filter.
	// Returns ErrUserNotFound on zero matches, ErrAmbiguousFilter when a
	// unique-field filter somehow matches two records, ErrEmptyFilter when
	// the filter is empty.
	FindOne(ctx context.Context, filter UserFilter) (*entity.User, error)

	// Update applies the given changes to the record with that id as a single
	// atomic statement. Returns ErrUserNotFound if the id does not exist and
	// ErrEmptyUpdate when no change is set.
	Update(ctx context.Context, id uuid.UUID, changes UserChanges) error
}
