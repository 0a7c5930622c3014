// Package domain contains persistence models for online transactions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	"github.com/vendora/vendora/pkg/money"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

// LineItem is a product position captured at checkout time. Name and
// price are denormalized so later catalog edits do not rewrite history.
type LineItem struct {
	ProductID  snowflake.ID `json:"product_id"`
	SKU        string       `json:"sku"`
	Name       string       `json:"name"`
	Quantity   int          `json:"quantity"`
	PricePaisa money.Paisa  `json:"price_paisa"`
}

// Transaction is an online purchase at a machine paid through the
// payment gateway. GatewayOrderID is set when the checkout order is
// created; GatewayPaymentID only after a verified capture.
type Transaction struct {
	ID                snowflake.ID                   `gorm:"primaryKey" json:"id,string"`
	MachineID         snowflake.ID                   `gorm:"not null;index" json:"machine_id,string"`
	CustomerProfileID *snowflake.ID                  `gorm:"index" json:"customer_profile_id,omitempty"`
	Items             datatypes.JSONType[[]LineItem] `gorm:"type:jsonb" json:"items"`
	TotalPaisa        money.Paisa                    `gorm:"column:total_paisa;not null" json:"total_paisa"`
	Status            string                         `gorm:"type:text;not null;default:'pending'" json:"status"`
	GatewayOrderID    string                         `gorm:"type:text;uniqueIndex:ux_transactions_gateway_order" json:"gateway_order_id"`
	GatewayPaymentID  string                         `gorm:"type:text" json:"gateway_payment_id"`
	PaidAt            *time.Time                     `json:"paid_at,omitempty"`
	CreatedAt         time.Time                      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time                      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }
