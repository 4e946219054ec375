package auth

import (
	"github.com/google/uuid"

	"gatekeeper/internal/domain/service"
)

// uuidTokenSource mints opaque tokens from random (version 4) UUIDs: 122 bits
// of CSPRNG output in a compact, log-safe string form.
type uuidTokenSource struct{}

// NewUUIDTokenSource is the constructor for uuidTokenSource.
func NewUUIDTokenSource() service.TokenSource {
	return &uuidTokenSource{}
}

// NewToken returns a fresh random token.
func (s *uuidTokenSource) NewToken() string {
	return uuid.NewString()
}
