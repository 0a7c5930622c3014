// Package domain contains persistence models for the vending machine service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusOnline      = "online"
	StatusOffline     = "offline"
	StatusMaintenance = "maintenance"
)

// VendingMachine is a deployed unit in the field. MachineID is the
// hardware identifier the machine reports on check-in; it is distinct
// from the row ID.
type VendingMachine struct {
	ID                snowflake.ID      `gorm:"primaryKey" json:"id,string"`
	MachineID         string            `gorm:"type:text;not null;uniqueIndex:ux_machines_machine_id" json:"machine_id"`
	MACAddress        string            `gorm:"type:text;column:mac_address" json:"mac_address"`
	Name              string            `gorm:"type:text" json:"name"`
	Location          string            `gorm:"type:text" json:"location"`
	Status            string            `gorm:"type:text;not null;default:'offline'" json:"status"`
	Telemetry         datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"telemetry"`
	CustomerProfileID *snowflake.ID     `gorm:"index" json:"customer_profile_id,omitempty"`
	LastCheckinAt     *time.Time        `json:"last_checkin_at,omitempty"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (VendingMachine) TableName() string { return "vending_machines" }
