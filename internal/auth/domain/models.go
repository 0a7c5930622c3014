// Package domain contains session persistence models for authentication.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Session is an opaque-token login session.
type Session struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ProfileID snowflake.ID `gorm:"not null;index" json:"profile_id"`
	Token     string       `gorm:"type:text;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time   `gorm:"" json:"revoked_at,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }
