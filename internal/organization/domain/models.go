// Package domain contains persistence models for the organization service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Organization is a billable business account. Its vending machines are
// owned by customer profiles attached to the organization.
type Organization struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id,string"`
	Name           string            `gorm:"type:text;not null" json:"name"`
	ContactEmail   string            `gorm:"type:text;column:contact_email" json:"contact_email"`
	ContactPhone   string            `gorm:"type:text;column:contact_phone" json:"contact_phone"`
	Address        string            `gorm:"type:text" json:"address"`
	TaxID          string            `gorm:"type:text;column:tax_id" json:"tax_id"`
	Status         string            `gorm:"type:text;not null;default:'active'" json:"status"`
	OwnerProfileID *snowflake.ID     `gorm:"index" json:"owner_profile_id,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }
