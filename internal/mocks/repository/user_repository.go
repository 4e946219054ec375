// Package repository provides hand-written testify doubles for the domain
// repository interfaces.
package repository

import (
	"context"
	"testing"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a testify double for repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository returns a mock whose expectations are asserted when
// the test finishes.
func NewMockUserRepository(t *testing.T) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) Insert(ctx context.Context, email, hashedPassword string) (*entity.User, error) {
	args := m.Called(ctx, email, hashedPassword)

	var user *entity.User
	if v := args.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, args.Error(1)
}

func (m *MockUserRepository) FindOne(ctx context.Context, filter repository.UserFilter) (*entity.User, error) {
	args := m.Called(ctx, filter)

	var user *entity.User
	if v := args.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id uuid.UUID, changes repository.UserChanges) error {
	args := m.Called(ctx, id, changes)

	return args.Error(0)
}

// MockRepositoryFactory is a testify double for repository.RepositoryFactory.
type MockRepositoryFactory struct {
	userRepo repository.UserRepository
}

func (f *MockRepositoryFactory) UserRepo() repository.UserRepository {
	return f.userRepo
}

// MockTransactionManager runs the transactional callback against the given
// user repository, with no real transaction underneath.
type MockTransactionManager struct {
	userRepo repository.UserRepository

	// ExecuteErr, when set, is returned without invoking the callback.
	ExecuteErr error
}

// NewMockTransactionManager returns a pass-through transaction manager bound
// to the given repository.
func NewMockTransactionManager(userRepo repository.UserRepository) *MockTransactionManager {
	return &MockTransactionManager{userRepo: userRepo}
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if m.ExecuteErr != nil {
		return m.ExecuteErr
	}

	return fn(&MockRepositoryFactory{userRepo: m.userRepo})
}
