// Package domain contains persistence models for coin payments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/vendora/vendora/pkg/money"
)

// CoinPayment is one cash drop at a machine. Rows are append-only; a
// failed vend keeps the row with Dispensed false so the cash box still
// reconciles.
type CoinPayment struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id,string"`
	MachineID   snowflake.ID  `gorm:"not null;index" json:"machine_id,string"`
	ProductID   *snowflake.ID `gorm:"index" json:"product_id,omitempty"`
	AmountPaisa money.Paisa   `gorm:"column:amount_paisa;not null" json:"amount_paisa"`
	Dispensed   bool          `gorm:"not null;default:false" json:"dispensed"`
	PaidAt      time.Time     `gorm:"not null;index" json:"paid_at"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CoinPayment) TableName() string { return "coin_payments" }
