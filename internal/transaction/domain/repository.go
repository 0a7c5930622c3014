package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/vendora/vendora/pkg/db/pagination"
	"github.com/vendora/vendora/pkg/money"
)

// WindowTotal is the aggregate of paid transactions for a set of
// machines over a half-open time window.
type WindowTotal struct {
	Count       int64       `gorm:"column:count"`
	AmountPaisa money.Paisa `gorm:"column:amount_paisa"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, txn *Transaction) error
	Update(ctx context.Context, db *gorm.DB, txn *Transaction) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Transaction, error)
	FindByGatewayOrderID(ctx context.Context, db *gorm.DB, orderID string) (*Transaction, error)
	ListByMachines(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, page pagination.Pagination) ([]*Transaction, *pagination.PageInfo, error)
	// SumPaidWindow totals paid transactions for the machines with
	// paid_at in [start, end).
	SumPaidWindow(ctx context.Context, db *gorm.DB, machineIDs []snowflake.ID, start, end time.Time) (WindowTotal, error)
}
