package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/vendora/vendora/pkg/db/pagination"
	"github.com/vendora/vendora/pkg/money"
)

// WindowTotal is the aggregate of payments for a set of machines over a
// half-open time window.
type WindowTotal struct {
	Count       int64       `gorm:"column:count"`
	AmountPaisa money.Paisa `gorm:"column:amount_paisa"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *CoinPayment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*CoinPayment, error)
	ListByMachines(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, page pagination.Pagination) ([]*CoinPayment, *pagination.PageInfo, error)
	// SumWindow totals dispensed payments for the machines with paid_at
	// in [start, end). An empty machine set returns a zero total
	// without touching the database.
	SumWindow(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, start, end time.Time) (WindowTotal, error)
}
