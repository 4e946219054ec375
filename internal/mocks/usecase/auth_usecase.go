// Package usecase provides hand-written testify doubles for the usecase
// interfaces.
package usecase

import (
	"context"
	"testing"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAuthUsecase is a testify double for usecase.AuthUsecase.
type MockAuthUsecase struct {
	mock.Mock
}

// NewMockAuthUsecase returns a mock whose expectations are asserted when the
// test finishes.
func NewMockAuthUsecase(t *testing.T) *MockAuthUsecase {
	m := &MockAuthUsecase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAuthUsecase) Register(ctx context.Context, input usecase.RegisterInput) (*entity.User, error) {
	args := m.Called(ctx, input)

	var user *entity.User
	if v := args.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, args.Error(1)
}

func (m *MockAuthUsecase) ValidLogin(ctx context.Context, input usecase.LoginInput) (bool, error) {
	args := m.Called(ctx, input)

	return args.Bool(0), args.Error(1)
}

func (m *MockAuthUsecase) CreateSession(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)

	return args.String(0), args.Error(1)
}

func (m *MockAuthUsecase) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)

	var user *entity.User
	if v := args.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, args.Error(1)
}

func (m *MockAuthUsecase) ResolveSession(ctx context.Context, sessionToken string) (*entity.User, error) {
	args := m.Called(ctx, sessionToken)

	var user *entity.User
	if v := args.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, args.Error(1)
}

func (m *MockAuthUsecase) DestroySession(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

func (m *MockAuthUsecase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)

	return args.String(0), args.Error(1)
}

func (m *MockAuthUsecase) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	args := m.Called(ctx, resetToken, newPassword)

	return args.Error(0)
}
