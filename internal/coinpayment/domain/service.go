package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/vendora/vendora/pkg/db/pagination"
)

type Service interface {
	// Record appends a coin payment reported by a machine. PaidAt
	// defaults to the current time when zero.
	Record(ctx context.Context, req RecordRequest) (*CoinPayment, error)
	GetByID(ctx context.Context, id string) (*CoinPayment, error)
	ListByMachines(ctx context.Context, machineIDs []snowflake.ID, page pagination.Pagination) ([]*CoinPayment, *pagination.PageInfo, error)
	SumWindow(ctx context.Context, machineIDs []snowflake.ID, start, end time.Time) (WindowTotal, error)
}

type RecordRequest struct {
	MachineID   string    `json:"machine_id"`
	ProductID   *string   `json:"product_id"`
	AmountPaisa int64     `json:"amount_paisa"`
	Dispensed   bool      `json:"dispensed"`
	PaidAt      time.Time `json:"paid_at"`
}

var (
	ErrInvalidMachine = errors.New("invalid_machine")
	ErrInvalidProduct = errors.New("invalid_product")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("coin_payment_not_found")
)
