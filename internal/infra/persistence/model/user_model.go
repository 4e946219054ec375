package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// Email carries a full unique index; the token columns carry partial unique
// indexes (WHERE token <> '') so that an empty value — no session, no pending
// reset — never collides, while a live token identifies at most one row.
type UserModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email          string    `gorm:"type:varchar(255);unique;not null"`
	HashedPassword string    `gorm:"type:varchar(255);not null"`
	SessionToken   string    `gorm:"type:varchar(64);not null;default:'';uniqueIndex:idx_users_session_token,where:session_token <> ''"`
	ResetToken     string    `gorm:"type:varchar(64);not null;default:'';uniqueIndex:idx_users_reset_token,where:reset_token <> ''"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
