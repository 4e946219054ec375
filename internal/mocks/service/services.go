// Package service provides hand-written testify doubles for the domain
// service interfaces.
package service

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a testify double for service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher returns a mock whose expectations are asserted when
// the test finishes.
func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hashedPassword string) bool {
	args := m.Called(password, hashedPassword)

	return args.Bool(0)
}

// MockTokenSource is a deterministic service.TokenSource: it hands out the
// queued tokens in order and repeats the last one once drained.
type MockTokenSource struct {
	tokens []string
	next   int
}

// NewMockTokenSource returns a token source yielding the given tokens.
func NewMockTokenSource(tokens ...string) *MockTokenSource {
	return &MockTokenSource{tokens: tokens}
}

func (m *MockTokenSource) NewToken() string {
	if len(m.tokens) == 0 {
		return ""
	}

	token := m.tokens[m.next]
	if m.next < len(m.tokens)-1 {
		m.next++
	}

	return token
}
