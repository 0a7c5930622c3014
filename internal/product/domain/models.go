// Package domain contains persistence models for the product catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/vendora/vendora/pkg/money"
)

// Product is an item stocked in vending machines. PricePaisa is the
// unit price in the smallest currency denomination.
type Product struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id,string"`
	SKU        string       `gorm:"type:text;not null;uniqueIndex:ux_products_sku" json:"sku"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	PricePaisa money.Paisa  `gorm:"column:price_paisa;not null" json:"price_paisa"`
	Active     bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
