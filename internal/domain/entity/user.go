// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record at the heart of the service. One row per
// registered account, keyed externally by email.
type User struct {
	ID             uuid.UUID // Store-generated unique identifier, immutable after creation.
	Email          string    // Primary external lookup key. Unique across all records.
	HashedPassword string    // bcrypt output. Never holds, and is never logged next to, the plaintext.
	SessionToken   string    // Opaque bearer token. Empty when the user has no live session.
	ResetToken     string    // Single-use password-reset token. Empty when no reset is pending.
	CreatedAt      time.Time // Timestamp of when this account was created.
	UpdatedAt      time.Time // Timestamp of the last modification to this record.
}

// HasSession reports whether the user currently holds a live session token.
func (u *User) HasSession() bool {
	return u.SessionToken != ""
}

// HasPendingReset reports whether a password reset is outstanding.
func (u *User) HasPendingReset() bool {
	return u.ResetToken != ""
}
