// Package domain contains persistence models for user profiles.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

const (
	AccountTypeAdmin         = "admin"
	AccountTypeCustomer      = "customer"
	AccountTypeSuperCustomer = "super_customer"
)

// Permissions is the per-profile capability object.
type Permissions struct {
	CanEdit bool `json:"can_edit"`
	CanView bool `json:"can_view"`
}

// Profile is a user account record. It drives every authorization check.
type Profile struct {
	ID             snowflake.ID                        `gorm:"primaryKey" json:"id"`
	Email          string                              `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Name           string                              `gorm:"type:text;not null" json:"name"`
	PasswordHash   string                              `gorm:"type:text;not null" json:"-"`
	Role           string                              `gorm:"type:text;not null;default:'customer'" json:"role"`
	AccountType    string                              `gorm:"type:text;not null;default:'customer'" json:"account_type"`
	OrganizationID *snowflake.ID                       `gorm:"index" json:"organization_id,omitempty"`
	Permissions    datatypes.JSONType[Permissions]     `gorm:"not null" json:"permissions"`
	CreatedAt      time.Time                           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time                           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }
